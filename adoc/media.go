package adoc

import (
	"regexp"
	"strings"
)

// mediaBlockRegexp recognizes the block-level (double-colon) form of the
// image/audio/video macros, on a line of their own (spec.md §3, §4.4;
// the single-colon inline form is handled separately by tryMacro in
// inline.go).
var mediaBlockRegexp = regexp.MustCompile(`^(image|audio|video)::([^\[]+)\[(.*)\]\s*$`)

// mediaKeyValRegexp recognizes a `key=value` block-media attribute, e.g.
// `width=320` or `poster=cover.jpg`.
var mediaKeyValRegexp = regexp.MustCompile(`^(\w+)=(.*)$`)

// parseMedia consumes a single-line image::/audio::/video:: block macro.
// Its attrs list mirrors the inline image macro's positional
// alt,width,height shape (splitImageAttrs), plus key=value overrides and
// bare option flags (autoplay, loop, nocontrols) for audio/video.
func (s *blockScanner) parseMedia(line string, meta BlockMetadata, title Title) Block {
	m := mediaBlockRegexp.FindStringSubmatch(line)
	kind, target, attrsStr := m[1], strings.TrimSpace(m[2]), m[3]
	start := s.i
	s.i++
	loc := s.loc(start, start)

	opts := map[string]string{}
	var flags []string
	for _, part := range strings.Split(attrsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if kv := mediaKeyValRegexp.FindStringSubmatch(part); kv != nil {
			opts[kv[1]] = strings.Trim(kv[2], `"`)
			continue
		}
		flags = append(flags, part)
	}
	hasFlag := func(name string) bool {
		for _, f := range flags {
			if f == name {
				return true
			}
		}
		return false
	}

	switch kind {
	case "image":
		alt, width, height := splitImageAttrs(attrsStr)
		if v, ok := opts["alt"]; ok {
			alt = v
		}
		if v, ok := opts["width"]; ok {
			width = v
		}
		if v, ok := opts["height"]; ok {
			height = v
		}
		return Image{base: base{meta, title, loc}, Target: target, Alt: alt, Width: width, Height: height}
	case "audio":
		return Audio{
			base:     base{meta, title, loc},
			Target:   target,
			Autoplay: hasFlag("autoplay"),
			Loop:     hasFlag("loop"),
			Controls: !hasFlag("nocontrols"),
		}
	default: // video
		return Video{
			base:     base{meta, title, loc},
			Target:   target,
			Poster:   opts["poster"],
			Width:    opts["width"],
			Height:   opts["height"],
			Autoplay: hasFlag("autoplay"),
			Loop:     hasFlag("loop"),
			Controls: !hasFlag("nocontrols"),
		}
	}
}

// Image is the block-level `image::target[alt,width,height]` macro.
type Image struct {
	base
	Target string
	Alt    string
	Width  string
	Height string
}

// Audio is the block-level `audio::target[options]` macro.
type Audio struct {
	base
	Target string
	Autoplay bool
	Controls bool
	Loop     bool
}

// Video is the block-level `video::target[options]` macro.
type Video struct {
	base
	Target   string
	Poster   string
	Width    string
	Height   string
	Autoplay bool
	Controls bool
	Loop     bool
}
