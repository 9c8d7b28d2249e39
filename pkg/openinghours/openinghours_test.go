package openinghours

import (
	"reflect"
	"testing"
)

func TestParseDayRangeInclusive(t *testing.T) {
	week := Parse("Mo-We 08:00-12:00")

	want := DaySchedule{Start: "08:00", End: "12:00"}
	for _, d := range []Day{Monday, Tuesday, Wednesday} {
		if week[d] != want {
			t.Errorf("day %s = %+v, want %+v", d, week[d], want)
		}
	}
	for _, d := range []Day{Thursday, Friday, Saturday, Sunday} {
		if !week[d].IsZero() {
			t.Errorf("day %s = %+v, want empty", d, week[d])
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	week := Parse("")

	if len(week) != 7 {
		t.Fatalf("expected all seven days present, got %d", len(week))
	}
	for _, d := range Days {
		if !week[d].IsZero() {
			t.Errorf("day %s = %+v, want empty", d, week[d])
		}
	}
}

func TestParseToleratesMalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[Day]DaySchedule
	}{
		{
			name:  "garbage sibling token",
			input: "garbage token; Mo 09:00-17:00",
			want:  map[Day]DaySchedule{Monday: {Start: "09:00", End: "17:00"}},
		},
		{
			name:  "unknown day code ignored",
			input: "Xx 09:00-17:00; Tu 10:00-18:00",
			want:  map[Day]DaySchedule{Tuesday: {Start: "10:00", End: "18:00"}},
		},
		{
			name:  "missing time part",
			input: "Mo; Tu 10:00-18:00",
			want:  map[Day]DaySchedule{Tuesday: {Start: "10:00", End: "18:00"}},
		},
		{
			name:  "reversed day range contributes nothing",
			input: "Fr-Mo 08:00-12:00; Sa 09:00-23:00",
			want:  map[Day]DaySchedule{Saturday: {Start: "09:00", End: "23:00"}},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  Mo 07:30-22:00 ;  Sa 09:00-23:00  ",
			want: map[Day]DaySchedule{
				Monday:   {Start: "07:30", End: "22:00"},
				Saturday: {Start: "09:00", End: "23:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := Parse(tt.input)
			for _, d := range Days {
				want := tt.want[d]
				if week[d] != want {
					t.Errorf("day %s = %+v, want %+v", d, week[d], want)
				}
			}
		})
	}
}

func TestParseLastTokenWins(t *testing.T) {
	week := Parse("Mo 09:00-17:00; Mo 10:00-18:00")

	want := DaySchedule{Start: "10:00", End: "18:00"}
	if week[Monday] != want {
		t.Errorf("Monday = %+v, want %+v", week[Monday], want)
	}
}

func TestFormatSkipsIncompleteDays(t *testing.T) {
	week := NewWeeklySchedule()
	week[Monday] = DaySchedule{Start: "09:00", End: "17:00"}
	week[Tuesday] = DaySchedule{Start: "09:00"} // in-progress edit
	week[Sunday] = DaySchedule{End: "12:00"}

	got := Format(week)
	want := "Mo 09:00-17:00"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatFixedDayOrder(t *testing.T) {
	week := NewWeeklySchedule()
	week[Sunday] = DaySchedule{Start: "10:00", End: "16:00"}
	week[Monday] = DaySchedule{Start: "09:00", End: "17:00"}

	got := Format(week)
	want := "Mo 09:00-17:00; Su 10:00-16:00"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatEmptyWeek(t *testing.T) {
	if got := Format(NewWeeklySchedule()); got != "" {
		t.Errorf("Format(empty) = %q, want empty string", got)
	}
}

// Format(Parse(text)) must re-parse to the same schedule even though ranges
// are expanded to individual days.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"Mo-Fr 07:30-22:00; Sa 09:00-23:00",
		"Mo 09:00-17:00",
		"Tu-Th 06:00-21:30; Su 08:00-20:00",
		"",
	}

	for _, input := range inputs {
		parsed := Parse(input)
		reparsed := Parse(Format(parsed))
		if !parsed.Equal(reparsed) {
			t.Errorf("round trip of %q: got %+v, want %+v", input, reparsed, parsed)
		}
	}
}

// Formatting is idempotent: once a schedule has been rendered, rendering its
// parse yields the identical string.
func TestFormatIdempotent(t *testing.T) {
	week := NewWeeklySchedule()
	week[Monday] = DaySchedule{Start: "07:30", End: "22:00"}
	week[Friday] = DaySchedule{Start: "07:30", End: "22:00"}
	week[Saturday] = DaySchedule{Start: "09:00", End: "23:00"}

	first := Format(week)
	second := Format(Parse(first))
	if first != second {
		t.Errorf("Format not idempotent: %q != %q", first, second)
	}
}

func TestDisplayLinesPreservesRangeGrouping(t *testing.T) {
	got := DisplayLines("Mo-We 08:00-12:00; Sa 09:00-23:00")
	want := []string{
		"Monday: 08:00 - 12:00",
		"Tuesday: 08:00 - 12:00",
		"Wednesday: 08:00 - 12:00",
		"Saturday: 09:00 - 23:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DisplayLines = %v, want %v", got, want)
	}
}

func TestDisplayLinesEmptyAndMalformed(t *testing.T) {
	if got := DisplayLines(""); got != nil {
		t.Errorf("DisplayLines(\"\") = %v, want nil", got)
	}
	if got := DisplayLines("nonsense"); got != nil {
		t.Errorf("DisplayLines(malformed) = %v, want nil", got)
	}
}
