package neo

// Summary condenses a day of approaches for the dashboard.
type Summary struct {
	Total          int       `json:"total"`
	HazardousCount int       `json:"hazardous_count"`
	Closest        *Approach `json:"closest,omitempty"` // smallest lunar miss distance
	Largest        *Approach `json:"largest,omitempty"` // largest average diameter
}

// Summarize returns the totals over approaches. Rows without a lunar
// distance or an average diameter are ignored for Closest and Largest.
// Ties keep the first row.
func Summarize(approaches []Approach) Summary {
	s := Summary{Total: len(approaches)}

	for i := range approaches {
		a := &approaches[i]
		if a.Hazardous {
			s.HazardousCount++
		}
		if a.MissDistanceLunar != nil && (s.Closest == nil || *a.MissDistanceLunar < *s.Closest.MissDistanceLunar) {
			s.Closest = a
		}
		if a.DiameterAvgKM != nil && (s.Largest == nil || *a.DiameterAvgKM > *s.Largest.DiameterAvgKM) {
			s.Largest = a
		}
	}

	// Detach from the input slice
	if s.Closest != nil {
		c := *s.Closest
		s.Closest = &c
	}
	if s.Largest != nil {
		l := *s.Largest
		s.Largest = &l
	}
	return s
}
