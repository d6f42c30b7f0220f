package model

import (
	"encoding/json"
	"testing"
)

func TestStatus_Decode(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{`"Ended"`, StatusEnded},
		{`"Running"`, StatusRunning},
		{`"To Be Determined"`, StatusToBeDetermined},
		{`"In Development"`, StatusNone},
		{`null`, StatusNone},
		{`42`, StatusNone},
	}
	for _, tt := range tests {
		var s Status
		if err := json.Unmarshal([]byte(tt.raw), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if s != tt.want {
			t.Errorf("status(%s) = %v, want %v", tt.raw, s, tt.want)
		}
	}
}

func TestTVShow_DecodeNullables(t *testing.T) {
	raw := `{"id":1,"name":"Under the Dome","status":null,"rating":{"average":null},
		"schedule":{"time":"22:00","days":["Thursday"]},"image":null,"summary":null,"genres":["Drama"]}`

	var show TVShow
	if err := json.Unmarshal([]byte(raw), &show); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if show.Status != StatusNone {
		t.Errorf("status = %v, want none", show.Status)
	}
	if got := show.Rating.Value(); got != 0 {
		t.Errorf("rating = %v, want 0", got)
	}
	if show.Image != nil {
		t.Errorf("image = %+v, want nil", show.Image)
	}
	if got := show.Schedule.String(); got != "Thursday | 22:00" {
		t.Errorf("schedule = %q", got)
	}
}

func TestEpisodeCode(t *testing.T) {
	n := 7
	if got := (Episode{Season: 2, Number: &n}).Code(); got != "S02E07" {
		t.Errorf("code = %q, want S02E07", got)
	}
	if got := (Episode{Season: 1}).Code(); got != "S01 special" {
		t.Errorf("code = %q, want S01 special", got)
	}
}

func TestSeasonTitle(t *testing.T) {
	if got := (Season{Number: 3}).Title(); got != "Season 3" {
		t.Errorf("title = %q", got)
	}
	if got := (Season{Number: 3, Name: "Finale"}).Title(); got != "Finale" {
		t.Errorf("title = %q", got)
	}
}
