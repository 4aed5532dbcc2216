package diag

import "testing"

func TestParseSubsystem(t *testing.T) {
	tests := []struct {
		in      string
		want    SubsystemID
		wantErr bool
	}{
		{"ethernet", Ethernet, false},
		{"WiFi", WiFi, false},
		{"manifold-pressure", ManifoldPressure, false},
		{" source_pressure ", SourcePressure, false},
		{"sprinkler", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSubsystem(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSubsystem(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSubsystem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubsystemsReturnsCopy(t *testing.T) {
	ids := Subsystems()
	if len(ids) != 9 {
		t.Fatalf("Subsystems() len = %d, want 9", len(ids))
	}
	ids[0] = "tampered"
	if Subsystems()[0] != Ethernet {
		t.Error("Subsystems() exposed internal slice")
	}
}
