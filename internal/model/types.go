package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TVShow is a show as returned by the catalog API.
type TVShow struct {
	ID        int      `json:"id"`
	URL       string   `json:"url"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Language  string   `json:"language"`
	Genres    []string `json:"genres"`
	Status    Status   `json:"status"`
	Premiered string   `json:"premiered"`
	Rating    Rating   `json:"rating"`
	Schedule  Schedule `json:"schedule"`
	Image     *Poster  `json:"image"`
	Summary   string   `json:"summary"` // HTML
}

// Poster holds image URLs in two sizes.
type Poster struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// Rating is the average user rating; Average is nil when unrated.
type Rating struct {
	Average *float64 `json:"average"`
}

// Value returns the average, or 0 when unrated.
func (r Rating) Value() float64 {
	if r.Average == nil {
		return 0
	}
	return *r.Average
}

// Schedule is the airing time and weekdays.
type Schedule struct {
	Time string   `json:"time"`
	Days []string `json:"days"`
}

// String renders "Monday, Tuesday | 21:00".
func (s Schedule) String() string {
	return fmt.Sprintf("%s | %s", strings.Join(s.Days, ", "), s.Time)
}

// Status is the production status of a show.
type Status int

const (
	StatusNone Status = iota
	StatusEnded
	StatusRunning
	StatusToBeDetermined
)

var statusNames = map[Status]string{
	StatusEnded:          "Ended",
	StatusRunning:        "Running",
	StatusToBeDetermined: "To Be Determined",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// UnmarshalJSON maps null and unrecognised values to StatusNone.
func (s *Status) UnmarshalJSON(data []byte) error {
	*s = StatusNone
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for status, name := range statusNames {
		if name == raw {
			*s = status
			return nil
		}
	}
	return nil
}

// MarshalJSON writes StatusNone as null.
func (s Status) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(name)
}

// Season is one season of a show.
type Season struct {
	ID           int    `json:"id"`
	URL          string `json:"url"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	EpisodeOrder *int   `json:"episodeOrder"`
	PremiereDate string `json:"premiereDate"`
	EndDate      string `json:"endDate"`
}

// Title returns the season name, or "Season N" when unnamed.
func (s Season) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Season %d", s.Number)
}

// Episode is one episode of a season.
type Episode struct {
	ID      int     `json:"id"`
	URL     string  `json:"url"`
	Name    string  `json:"name"`
	Season  int     `json:"season"`
	Number  *int    `json:"number"`
	Airdate string  `json:"airdate"`
	Runtime *int    `json:"runtime"`
	Image   *Poster `json:"image"`
	Summary string  `json:"summary"` // HTML
}

// Code renders "S01E02", or "S01 special" for episodes without a number.
func (e Episode) Code() string {
	if e.Number == nil {
		return fmt.Sprintf("S%02d special", e.Season)
	}
	return fmt.Sprintf("S%02dE%02d", e.Season, *e.Number)
}

// SearchResult is one scored match of a show search. Show can be nil.
type SearchResult struct {
	Score float64 `json:"score"`
	Show  *TVShow `json:"show"`
}

// SeasonEpisodes pairs a season with its episodes.
type SeasonEpisodes struct {
	Season   Season
	Episodes []Episode
}
