package eventlog

// Library version, reported in the banner line that opens every
// successfully initialized log so downstream tools can reject streams
// they do not understand.
const (
	VersionMajor = 1
	VersionMinor = 2
	VersionBuild = 0
	VersionPatch = 0
)

// VersionCandidate marks pre-release builds in the banner.
const VersionCandidate = false

// BannerEvent is the event name of the version banner line.
const BannerEvent = "evlog-version"

// emitBanner writes the version line. It runs through the regular
// builder path so the banner obeys the same framing as every other
// line, but skips the line rate cap.
func (l *Log) emitBanner() {
	b := l.message()
	defer b.Close()
	candidate := 0
	if VersionCandidate {
		candidate = 1
	}
	if l.cfg.Embedder == "" {
		b.Appendf("%s,%d,%d,%d,%d,%d", BannerEvent,
			VersionMajor, VersionMinor, VersionBuild, VersionPatch, candidate)
	} else {
		b.Appendf("%s,%d,%d,%d,%d,%s,%d", BannerEvent,
			VersionMajor, VersionMinor, VersionBuild, VersionPatch,
			l.cfg.Embedder, candidate)
	}
	b.Flush()
}
