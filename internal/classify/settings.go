package classify

import "evalcmp/internal/spec"

// Settings holds the heuristic thresholds. Lengths count characters.
type Settings struct {
	// TailWindow is the size of the response suffix inspected for loops.
	TailWindow int
	// TailWords is the length of the trailing n-gram searched for.
	TailWords int
	// MinWindowWords is the word count the window must exceed.
	MinWindowWords int
	// RepeatThreshold is the occurrence count the n-gram must exceed.
	RepeatThreshold int
	// MinLoopLength skips the loop check for shorter responses.
	MinLoopLength int
	// TruncationLength marks responses long enough to have hit the output budget.
	TruncationLength int
}

// DefaultSettings mirrors a 2048-token output budget on GPQA-style prompts.
func DefaultSettings() Settings {
	return Settings{
		TailWindow:       500,
		TailWords:        5,
		MinWindowWords:   10,
		RepeatThreshold:  3,
		MinLoopLength:    0,
		TruncationLength: 3500,
	}
}

// SettingsFromConfig converts a normalized config block.
func SettingsFromConfig(cfg spec.ClassifierConfig) Settings {
	settings := DefaultSettings()
	if cfg.TailWindow > 0 {
		settings.TailWindow = cfg.TailWindow
	}
	if cfg.TailWords > 0 {
		settings.TailWords = cfg.TailWords
	}
	if cfg.MinWindowWords > 0 {
		settings.MinWindowWords = cfg.MinWindowWords
	}
	if cfg.RepeatThreshold > 0 {
		settings.RepeatThreshold = cfg.RepeatThreshold
	}
	if cfg.MinLoopLength > 0 {
		settings.MinLoopLength = cfg.MinLoopLength
	}
	if cfg.TruncationLength > 0 {
		settings.TruncationLength = cfg.TruncationLength
	}
	return settings
}
