package youtube

import (
	"sort"

	"ytbridge/provider"
)

// Quality tiers accepted by the download endpoint. Unrecognized tiers map to
// 1080p.
var qualityTierLabels = map[string]string{
	"4K":    "2160p",
	"2K":    "1440p",
	"1080p": "1080p",
	"720p":  "720p",
	"480p":  "480p",
	"360p":  "360p",
}

// QualityLabel maps a requested quality tier to the canonical variant label.
// The mapping is total: any tier outside the fixed vocabulary yields "1080p".
func QualityLabel(tier string) string {
	if label, ok := qualityTierLabels[tier]; ok {
		return label
	}
	return "1080p"
}

// SelectAudioVariant picks the best audio-only variant: highest bitrate,
// ties broken by provider order. Returns ErrNoSuitableFormat when no
// audio-only variant exists.
func SelectAudioVariant(variants []provider.MediaVariant) (provider.MediaVariant, error) {
	var audio []provider.MediaVariant
	for _, v := range variants {
		if v.HasAudio && !v.HasVideo {
			audio = append(audio, v)
		}
	}
	if len(audio) == 0 {
		return provider.MediaVariant{}, ErrNoSuitableFormat
	}
	// Stable keeps provider order for equal bitrates.
	sort.SliceStable(audio, func(i, j int) bool {
		return audio[i].Bitrate > audio[j].Bitrate
	})
	return audio[0], nil
}

// SelectVideoVariant picks one muxed (video+audio) variant for the requested
// quality tier. Preference order: exact label match, then 720p as the
// near-universal safety net, then whatever the provider listed first.
// Encoding pipelines do not guarantee every tier exists for every video.
func SelectVideoVariant(variants []provider.MediaVariant, tier string) (provider.MediaVariant, error) {
	target := QualityLabel(tier)

	var muxed []provider.MediaVariant
	for _, v := range variants {
		if v.HasVideo && v.HasAudio {
			muxed = append(muxed, v)
		}
	}
	if len(muxed) == 0 {
		return provider.MediaVariant{}, ErrNoSuitableFormat
	}

	for _, v := range muxed {
		if v.QualityLabel == target {
			return v, nil
		}
	}
	for _, v := range muxed {
		if v.QualityLabel == "720p" {
			return v, nil
		}
	}
	return muxed[0], nil
}

// SelectVariant dispatches on the requested output kind: "mp3" means
// audio-only, everything else is a video request at the given tier.
func SelectVariant(variants []provider.MediaVariant, format, tier string) (provider.MediaVariant, error) {
	if format == "mp3" {
		return SelectAudioVariant(variants)
	}
	return SelectVideoVariant(variants, tier)
}
