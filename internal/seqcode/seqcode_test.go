package seqcode

import (
	"fmt"
	"testing"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		in   byte
		want byte
	}{
		{'A', A}, {'a', A},
		{'C', C}, {'c', C},
		{'G', G}, {'g', G},
		{'T', T}, {'t', T},
		{'U', T}, {'u', T},
		{'N', N}, {'n', N},
		{'X', N}, {'-', N},
	}
	for _, c := range cases {
		if got := Encode(c.in); got != c.want {
			t.Errorf("Encode(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, ch := range []byte{'A', 'C', 'G', 'T', 'N'} {
		if got := Decode(Encode(ch)); got != ch {
			t.Errorf("Decode(Encode(%q)) = %q, want %q", ch, got, ch)
		}
	}
}

func TestEncodeString(t *testing.T) {
	got := EncodeString("ACGTNacgtnU")
	want := []byte{A, C, G, T, N, A, C, G, T, N, T}
	if len(got) != len(want) {
		t.Fatalf("EncodeString length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EncodeString()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDecodeString(t *testing.T) {
	if got := DecodeString([]byte{A, C, G, T, N}); got != "ACGTN" {
		t.Errorf("DecodeString() = %q, want %q", got, "ACGTN")
	}
}

func TestSentinelNeverDecodedAsBase(t *testing.T) {
	if Decode(Sentinel()) == 'A' || Decode(Sentinel()) == 'N' {
		t.Errorf("Sentinel() decoded as a real base character")
	}
}

func ExampleDecodeString() {
	fmt.Println(DecodeString(EncodeString("acgtn")))
	// Output: ACGTN
}
