package mood

import "strings"

// AttributeTarget holds the audio-attribute goals and seed candidates the
// recommendation strategy aims for when building a playlist for a bucket.
type AttributeTarget struct {
	TargetValence float64 // 0..1, musical positivity
	TargetEnergy  float64 // 0..1
	TargetTempo   float64 // BPM

	CandidateGenres    []string
	CandidateArtistIDs []string
	CandidateTrackIDs  []string
}

// Static targets per bucket. Order inside the candidate lists matters: the
// seed resolver takes candidates front to back.
var targets = map[Bucket]AttributeTarget{
	Positive: {
		TargetValence:   0.8,
		TargetEnergy:    0.75,
		TargetTempo:     120,
		CandidateGenres: []string{"pop", "dance", "funk", "disco"},
		CandidateArtistIDs: []string{
			"6M2wZ9GZgrQXHCFfjv46we", // Dua Lipa
			"1uNFoZAHBGtllmzznpCI3s", // Justin Bieber
			"66CXWjxzNUsdJxJ2JdwvnR", // Ariana Grande
		},
		CandidateTrackIDs: []string{
			"39LLxExYz6ewLAcYrzQQyP", // Levitating
			"0VjIjW4GlUZAMYd2vXMi3b", // Blinding Lights
			"6habFhsOp2NvshLv26DqMb", // Despacito
		},
	},
	Negative: {
		TargetValence:   0.25,
		TargetEnergy:    0.35,
		TargetTempo:     85,
		CandidateGenres: []string{"acoustic", "piano", "sad", "singer-songwriter"},
		CandidateArtistIDs: []string{
			"4dpARuHxo51G3z768sgnrY", // Adele
			"6eUKZXaKkcviH0Ku9w2n3V", // Ed Sheeran
			"163tK9Wjr9P9DmM0AVK7lm", // Lorde
		},
		CandidateTrackIDs: []string{
			"1zwMYTA5nlNjZxYrvBB2pV", // Someone Like You
			"0gplL1WMoJ6iYaPgMCL0gX", // Easy On Me
			"3hRV0jL3vUpRrcy398teAU", // The Night We Met
		},
	},
	Neutral: {
		TargetValence:   0.5,
		TargetEnergy:    0.5,
		TargetTempo:     100,
		CandidateGenres: []string{"chill", "indie", "ambient", "study"},
		CandidateArtistIDs: []string{
			"4gzpq5DPGxSnKTe4SA8HAU", // Coldplay
			"53XhwfbYqKCa1cC15pYq2q", // Imagine Dragons
			"3WrFJ7ztbogyGnTHbHJFl2", // The Beatles
		},
		CandidateTrackIDs: []string{
			"3AJwUDP919kvQ9QcozQPxg", // Yellow
			"7qiZfU4dY1lWllzX7mPBI3", // Shape of You
			"5ChkMS8OtdzJeqyybCc9R5", // Billie Jean
		},
	},
}

// Attributes returns the static target for a bucket.
func Attributes(b Bucket) AttributeTarget {
	if t, ok := targets[b]; ok {
		return t
	}
	return targets[Neutral]
}

// AttributesForLabel resolves an explicit mood label supplied by the caller.
// Known bucket names map directly; anything else keeps the label verbatim
// for display but borrows neutral's attribute target.
func AttributesForLabel(label string) AttributeTarget {
	switch b := Bucket(strings.ToLower(label)); b {
	case Positive, Negative, Neutral:
		return targets[b]
	default:
		return targets[Neutral]
	}
}
