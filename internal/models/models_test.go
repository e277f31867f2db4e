package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.March, 4)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-04"` {
		t.Fatalf("marshal = %s", b)
	}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: `"2025-12-31"`, want: "2025-12-31"},
		{in: `null`, want: ""},
		{in: `""`, want: ""},
		{in: `"31/12/2025"`, wantErr: true},
		{in: `"2025-02-30"`, wantErr: true},
	}
	for _, tt := range tests {
		var got Date
		err := json.Unmarshal([]byte(tt.in), &got)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v", tt.in, err)
		}
		if tt.wantErr {
			continue
		}
		if tt.want == "" {
			if !got.IsZero() {
				t.Fatalf("%s: want zero date, got %v", tt.in, got)
			}
			continue
		}
		if got.String() != tt.want {
			t.Fatalf("%s: got %s", tt.in, got)
		}
	}
}

func TestTimeOfDayJSON(t *testing.T) {
	b, err := json.Marshal(NewTimeOfDay(9, 5))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"09:05"` {
		t.Fatalf("marshal = %s", b)
	}

	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: `"18:30"`, want: TimeOfDay{Hour: 18, Minute: 30}},
		{in: `"00:00"`, want: TimeOfDay{}},
		{in: `null`, want: TimeOfDay{}},
		{in: `"25:00"`, wantErr: true},
		{in: `"6pm"`, wantErr: true},
	}
	for _, tt := range tests {
		var got TimeOfDay
		err := json.Unmarshal([]byte(tt.in), &got)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("%s: got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOptionalFieldsInEventJSON(t *testing.T) {
	var body struct {
		Date  *Date      `json:"date"`
		Start *TimeOfDay `json:"start"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2025-06-07","start":null}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Date == nil || body.Date.String() != "2025-06-07" || body.Start != nil {
		t.Fatalf("decoded = %+v", body)
	}
}

func TestTimeOfDayAddWrapsMidnight(t *testing.T) {
	if got := NewTimeOfDay(23, 0).Add(2 * time.Hour); got.String() != "01:00" {
		t.Fatalf("23:00 + 2h = %s", got)
	}
	on := NewTimeOfDay(15, 0).On(NewDate(2025, time.March, 14))
	if on.Format("2006-01-02T15:04") != "2025-03-14T15:00" {
		t.Fatalf("On = %v", on)
	}
}

func TestMonthsAndYesNo(t *testing.T) {
	if MonthNumber("Sep") != 9 || MonthName(12) != "Dic" || MonthName(13) != "" || IsValidMonth("sep") {
		t.Fatal("month lookup mismatch")
	}
	for in, want := range map[string]bool{"Sí": true, " si ": true, "X": true, "No": false, "": false} {
		if ParseYesNo(in) != want {
			t.Fatalf("ParseYesNo(%q) != %v", in, want)
		}
	}
	if FormatYesNo(true) != "Sí" || FormatYesNo(false) != "No" {
		t.Fatal("FormatYesNo mismatch")
	}
}
