// Package channels parses the channel list configuration into channel
// references. The list is a plain-text file with one channel URL per line;
// blank lines and # comments are ignored.
package channels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Kind identifies which URL shape a reference was extracted from.
type Kind int

const (
	// KindChannelID is the canonical /channel/<id> form. No further
	// resolution is needed.
	KindChannelID Kind = iota
	// KindHandle is the @handle form.
	KindHandle
	// KindCustom is the /c/<custom-name> form.
	KindCustom
	// KindUser is the legacy /user/<username> form.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindChannelID:
		return "channel_id"
	case KindHandle:
		return "handle"
	case KindCustom:
		return "custom"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Ref is a channel reference parsed from one configuration line. For
// KindChannelID the Value is the canonical channel ID; for the other kinds it
// is the extracted handle or name, which still needs an external lookup to
// become a channel ID.
type Ref struct {
	// Raw is the configuration line as written.
	Raw string
	// Kind is the URL shape the reference matched.
	Kind Kind
	// Value is the channel ID, handle, or name extracted from the line.
	Value string
}

// Canonical reports whether the reference already carries a channel ID.
func (r Ref) Canonical() bool {
	return r.Kind == KindChannelID
}

// The supported URL shapes, tried in order; the first match wins. The
// patterns are mutually distinguishing by their path segment markers, so the
// order only matters for pathological inputs.
var patterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindHandle, regexp.MustCompile(`(?:^|/)@([A-Za-z0-9._-]+)`)},
	{KindCustom, regexp.MustCompile(`/c/([^/?#\s]+)`)},
	{KindChannelID, regexp.MustCompile(`/channel/([A-Za-z0-9_-]+)`)},
	{KindUser, regexp.MustCompile(`/user/([^/?#\s]+)`)},
}

// Parse reads the channel list from r and returns the references in file
// order. Lines matching no known URL shape are logged at warn level and
// skipped; they never abort parsing. A nil logger disables logging.
func Parse(r io.Reader, logger *zap.Logger) ([]Ref, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var refs []Ref
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ref, ok := match(line)
		if !ok {
			logger.Warn("unrecognized channel reference",
				zap.Int("line", lineNo),
				zap.String("text", line))
			continue
		}
		refs = append(refs, ref)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read channel list: %w", err)
	}

	return refs, nil
}

// Load reads the channel list from the file at path.
func Load(path string, logger *zap.Logger) ([]Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open channel list: %w", err)
	}
	defer f.Close()

	return Parse(f, logger)
}

func match(line string) (Ref, bool) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			return Ref{Raw: line, Kind: p.kind, Value: m[1]}, true
		}
	}
	return Ref{}, false
}
