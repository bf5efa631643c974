package docmark

import "testing"

func TestParseDecimalNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "plain number", input: "42", want: 42},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-240", want: -240},
		{name: "surrounding whitespace", input: " 7 ", want: 7},
		{name: "empty", input: "", wantErr: true},
		{name: "non-numeric", input: "abc", wantErr: true},
		{name: "trailing junk", input: "12pt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDecimalNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDecimalNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseDecimalNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{name: "empty means on", input: "", want: true},
		{name: "one", input: "1", want: true},
		{name: "true", input: "true", want: true},
		{name: "on", input: "on", want: true},
		{name: "zero", input: "0", want: false},
		{name: "false", input: "false", want: false},
		{name: "off", input: "off", want: false},
		{name: "garbage", input: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOnOff(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOnOff(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseOnOff(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimpleTypeCheck(t *testing.T) {
	tests := []struct {
		name  string
		st    SimpleType
		value string
		want  bool
	}{
		{name: "string accepts anything", st: STString, value: "anything at all", want: true},
		{name: "decimal accepts digits", st: STDecimalNumber, value: "17", want: true},
		{name: "decimal rejects words", st: STDecimalNumber, value: "seventeen", want: false},
		{name: "onoff accepts 1", st: STOnOff, value: "1", want: true},
		{name: "onoff rejects garbage", st: STOnOff, value: "maybe", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.Check(tt.value); got != tt.want {
				t.Errorf("%v.Check(%q) = %v, want %v", tt.st, tt.value, got, tt.want)
			}
		})
	}
}
