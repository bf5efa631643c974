package docmark

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const overrideNumbering = `<w:numbering ` + wmlNamespaceDecls + `>
	<w:abstractNum w:abstractNumId="0">
		<w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl>
		<w:lvl w:ilvl="1"><w:numFmt w:val="lowerLetter"/></w:lvl>
	</w:abstractNum>
	<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
	<w:num w:numId="3">
		<w:abstractNumId w:val="0"/>
		<w:lvlOverride w:ilvl="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:lvlOverride>
	</w:num>
</w:numbering>`

func TestNumberingPartLookups(t *testing.T) {
	pkg := openTestPackage(t, testDoc{body: para("", "x"), numbering: overrideNumbering})
	np := pkg.Numbering()

	if abstract, ok := np.AbstractNumID(1); !ok || abstract != 0 {
		t.Errorf("AbstractNumID(1) = %d, %v; want 0, true", abstract, ok)
	}
	if _, ok := np.AbstractNumID(42); ok {
		t.Error("AbstractNumID(42) should be missing")
	}

	tests := []struct {
		name   string
		numID  int
		level  int
		want   string
		wantOK bool
	}{
		{name: "level format from abstract definition", numID: 1, level: 0, want: NumFormatDecimal, wantOK: true},
		{name: "second level", numID: 1, level: 1, want: NumFormatLowerLetter, wantOK: true},
		{name: "level override wins", numID: 3, level: 0, want: NumFormatBullet, wantOK: true},
		{name: "non-overridden level falls through", numID: 3, level: 1, want: NumFormatLowerLetter, wantOK: true},
		{name: "undefined level", numID: 1, level: 5, wantOK: false},
		{name: "undefined numId", numID: 9, level: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := np.FormatFor(tt.numID, tt.level)
			if ok != tt.wantOK {
				t.Fatalf("FormatFor(%d, %d) ok = %v, want %v", tt.numID, tt.level, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("FormatFor(%d, %d) = %q, want %q", tt.numID, tt.level, got, tt.want)
			}
		})
	}
}

func TestNumberingStateNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []int
		want []int
	}{
		{
			name: "stepwise transitions with reverts",
			raw:  []int{0, 0, 1, 1, 0, 2, 1},
			want: []int{0, 0, 1, 1, 0, 2, 1},
		},
		{
			name: "non-contiguous raw levels still nest by transition",
			raw:  []int{0, 2, 4, 2, 0},
			want: []int{0, 1, 2, 1, 0},
		},
		{
			name: "starting deep counts as the first depth",
			raw:  []int{3, 3, 5, 3},
			want: []int{0, 0, 1, 0},
		},
		{
			name: "revert to unseen lower level adopts the nearest recorded depth",
			raw:  []int{1, 2, 0},
			want: []int{0, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newNumberingState()
			got := make([]int, len(tt.raw))
			for i, raw := range tt.raw {
				got[i] = state.normalize(raw)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("normalized depths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNumberingStateReset(t *testing.T) {
	state := newNumberingState()
	state.normalize(0)
	state.normalize(1)
	state.reset()
	if got := state.normalize(2); got != 0 {
		t.Errorf("first depth after reset = %d, want 0", got)
	}
}
