package cards

import (
	"log/slog"

	"github.com/coolbeans/cardcut/pkg/filename"
)

// Options configures a parse. The zero value is usable: the standard
// profile, ellipsis joining for highlighted spans, and the default logger.
type Options struct {
	// Profile selects a format preset; see ProfileNames.
	Profile ProfileName

	// Overrides adjusts individual fields of the selected profile.
	Overrides Overrides

	// MarkJoinSpace joins highlighted spans with a single space instead
	// of an ellipsis.
	MarkJoinSpace bool

	// Logger receives per-decision trace output at debug level.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Profile == "" {
		o.Profile = ProfileStandard
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Parse converts raw rich-text markup into structured evidence cards.
// fileName, when non-empty, supplies the document metadata. Parse does not
// fail: malformed markup degrades to cards carrying validation findings,
// and unparseable regions survive as plain outline text.
func Parse(markup, fileName string, opts Options) *Result {
	opts.defaults()

	profile, ok := Profile(opts.Profile)
	if !ok {
		opts.Logger.Warn("unknown profile, using standard", "profile", opts.Profile)
		profile, _ = Profile(ProfileStandard)
	}
	profile, err := profile.With(opts.Overrides)
	if err != nil {
		opts.Logger.Warn("invalid profile override ignored", "error", err)
	}

	markJoin := markEllipsis
	if opts.MarkJoinSpace {
		markJoin = " "
	}

	seg := newSegmenter(profile, markJoin, opts.Logger)
	seg.run(Normalize(markup))
	outline := seg.repair(seg.entries)

	result := &Result{Outline: outline}
	if fileName != "" {
		meta := filename.Parse(fileName)
		result.Metadata.Category = meta.Category
		result.Metadata.Title = meta.Topic
		result.Metadata.Organization = meta.Organization
		result.Metadata.Year = meta.Year
	}
	for _, entry := range outline {
		switch {
		case entry.Card != nil:
			result.Metadata.Quotes++
		case entry.Heading != nil:
			result.Metadata.Blocks++
		}
	}
	return result
}
