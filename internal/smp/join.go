package smp

import "strings"

// Joined pairs one workbook row with the profile it keys.
type Joined struct {
	Meta    MetaRow
	Profile Profile
}

// Join matches every workbook row to a profile before GPS matching happens.
// A row joins on an exact filename match, or on its key appearing in the last
// eight characters of a profile name (the instrument's fixed-width naming
// puts the record number there, and operators log just that number). Rows
// with no counterpart are returned separately; they are reported and
// excluded, never fatal. Output preserves workbook row order.
func Join(meta *Metadata, profiles []Profile) (joined []Joined, missing []string) {
	for _, row := range meta.Rows {
		p, ok := findProfile(row.File, profiles)
		if !ok {
			missing = append(missing, row.File)
			continue
		}
		joined = append(joined, Joined{Meta: row, Profile: p})
	}
	return joined, missing
}

func findProfile(key string, profiles []Profile) (Profile, bool) {
	if key == "" {
		return Profile{}, false
	}
	for _, p := range profiles {
		if p.Name == key {
			return p, true
		}
	}
	for _, p := range profiles {
		tail := p.Name
		if len(tail) > 8 {
			tail = tail[len(tail)-8:]
		}
		if strings.Contains(tail, key) {
			return p, true
		}
	}
	return Profile{}, false
}
