package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeEdges(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		pairs   []string
		want    string
		wantErr bool
	}{
		{"empty", -1, nil, "?", false},
		{"single edge", -1, []string{"0-1"}, "A_", false},
		{"triangle", -1, []string{"0-1", "1,2", "2-0"}, "Bw", false},
		{"explicit n", 4, []string{"0-2", "1-2", "0-3", "1-3", "2-3"}, "C^", false},
		{"isolated vertices", 3, nil, "B?", false},
		{"cycle", 5, []string{"0-1", "1-2", "2-3", "3-4", "4-0"}, "Dhc", false},
		{"out of range", 2, []string{"0-5"}, "", true},
		{"self-loop", -1, []string{"1-1"}, "", true},
		{"malformed", -1, []string{"01"}, "", true},
		{"not a number", -1, []string{"a-b"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeEdges(tt.n, tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("encodeEdges error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("encodeEdges(%d, %v) = %q, want %q", tt.n, tt.pairs, got, tt.want)
			}
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	got, err := execute(t, nil, "encode", "-n", "4", "0-1", "0-2", "0-3", "1-2", "1-3", "2-3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "C~\n" {
		t.Errorf("encode = %q, want %q", got, "C~\n")
	}
}

func TestInspectCommand(t *testing.T) {
	got, err := execute(t, nil, "inspect", "Dhc")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"graph6    Dhc",
		"vertices  5",
		"edges     5",
		"degrees   2 2 2 2 2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("inspect output missing %q:\n%s", want, got)
		}
	}
}

func TestInspectCommandJSON(t *testing.T) {
	got, err := execute(t, strings.NewReader("Bw\n"), "inspect", "-", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info graphInfo
	if err := json.Unmarshal([]byte(got), &info); err != nil {
		t.Fatalf("inspect --json output is not JSON: %v", err)
	}
	if info.Graph6 != "Bw" || info.Vertices != 3 || info.Edges != 3 || len(info.EdgeList) != 3 {
		t.Errorf("inspect --json = %+v", info)
	}
}

func TestInspectCommandInvalid(t *testing.T) {
	if _, err := execute(t, nil, "inspect", "~"); err == nil {
		t.Error("inspect should reject malformed graph6")
	}
}
