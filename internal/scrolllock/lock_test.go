package scrolllock

import (
	"testing"

	"github.com/Iron-Ham/tailpin/internal/errors"
)

func TestLock_AtAndWhen(t *testing.T) {
	tests := []struct {
		name     string
		lock     Lock
		target   fakeTarget
		wantAt   float64
		wantWhen bool
	}{
		{name: "none", lock: Lock{}, target: fakeTarget{top: 3, client: 10, height: 100}, wantAt: 0, wantWhen: false},
		{name: "bottom away", lock: BottomLock(), target: fakeTarget{top: 3, client: 10, height: 100}, wantAt: 100, wantWhen: true},
		{name: "bottom at edge", lock: BottomLock(), target: fakeTarget{top: 90, client: 10, height: 100}, wantAt: 100, wantWhen: false},
		{name: "bottom short content", lock: BottomLock(), target: fakeTarget{client: 10, height: 4}, wantAt: 4, wantWhen: false},
		{name: "top away", lock: TopLock(), target: fakeTarget{top: 3, client: 10, height: 100}, wantAt: 0, wantWhen: true},
		{name: "top at top", lock: TopLock(), target: fakeTarget{client: 10, height: 100}, wantAt: 0, wantWhen: false},
		{name: "freeze no growth", lock: FreezeLock(100, 20), target: fakeTarget{top: 20, client: 10, height: 100}, wantAt: 20, wantWhen: true},
		{name: "freeze grown", lock: FreezeLock(100, 20), target: fakeTarget{top: 20, client: 10, height: 142}, wantAt: 62, wantWhen: true},
		{name: "freeze from top", lock: FreezeLock(100, 0), target: fakeTarget{client: 10, height: 130}, wantAt: 30, wantWhen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lock.At(&tt.target); got != tt.wantAt {
				t.Errorf("At() = %v, want %v", got, tt.wantAt)
			}
			if got := tt.lock.When(&tt.target, 1); got != tt.wantWhen {
				t.Errorf("When() = %v, want %v", got, tt.wantWhen)
			}
		})
	}
}

func TestLock_String(t *testing.T) {
	tests := []struct {
		lock Lock
		want string
	}{
		{Lock{}, "none"},
		{BottomLock(), "bottom"},
		{TopLock(), "top"},
		{FreezeLock(120, 7.5), "freeze(height=120, offset=7.5)"},
		{Lock{Kind: LockKind(42)}, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.lock.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsAtBottom_Tolerance(t *testing.T) {
	tests := []struct {
		name       string
		top        float64
		pixelRatio float64
		want       bool
	}{
		{name: "exact", top: 90, pixelRatio: 1, want: true},
		{name: "under one pixel", top: 89.2, pixelRatio: 1, want: true},
		{name: "one pixel short", top: 89, pixelRatio: 1, want: false},
		{name: "retina within half", top: 89.6, pixelRatio: 2, want: true},
		{name: "retina outside half", top: 89.4, pixelRatio: 2, want: false},
		{name: "zero ratio treated as one", top: 89.5, pixelRatio: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{top: tt.top, client: 10, height: 100}
			if got := IsAtBottom(target, Tolerance(tt.pixelRatio)); got != tt.want {
				t.Errorf("IsAtBottom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAtTop(t *testing.T) {
	if !IsAtTop(&fakeTarget{}) {
		t.Error("offset 0 should be at top")
	}
	if IsAtTop(&fakeTarget{top: 0.25}) {
		t.Error("any positive offset is away from the top")
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input      string
		want       string
		wantOffset bool
		wantErr    bool
	}{
		{input: "", want: "bottom"},
		{input: "bottom", want: "bottom"},
		{input: " Bottom ", want: "bottom"},
		{input: "top", want: "top"},
		{input: "TOP", want: "top"},
		{input: "5", want: "5", wantOffset: true},
		{input: "12.5", want: "12.5", wantOffset: true},
		{input: "0", want: "0", wantOffset: true},
		{input: "middle", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePosition(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidPosition) {
					t.Fatalf("ParsePosition(%q) error = %v, want ErrInvalidPosition", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePosition(%q) error = %v", tt.input, err)
			}
			if p.String() != tt.want {
				t.Errorf("String() = %q, want %q", p.String(), tt.want)
			}
			if _, ok := p.Offset(); ok != tt.wantOffset {
				t.Errorf("Offset() ok = %v, want %v", ok, tt.wantOffset)
			}
		})
	}
}
