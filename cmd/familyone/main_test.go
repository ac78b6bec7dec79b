package main

import "testing"

func TestBodyLimit(t *testing.T) {
	cases := map[int64]string{
		0:          "1024K",
		512 << 10:  "2048K",
		64 << 20:   "262144K",
		100 << 10:  "1024K",
		3<<20 + 17: "12288K",
	}
	for in, want := range cases {
		if got := bodyLimit(in); got != want {
			t.Fatalf("bodyLimit(%d): expected %s got %s", in, want, got)
		}
	}
}
