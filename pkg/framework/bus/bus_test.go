package bus

import "testing"

func TestNewCVConfiguration(t *testing.T) {
	config := NewCVConfiguration([]string{"CV In"}, []string{"CV Out 1", "CV Out 2"})

	if got := config.GetBusCount(MediaTypeCV, DirectionInput); got != 1 {
		t.Errorf("Expected 1 CV input bus, got %d", got)
	}
	if got := config.GetBusCount(MediaTypeCV, DirectionOutput); got != 2 {
		t.Errorf("Expected 2 CV output buses, got %d", got)
	}
	if got := config.GetBusCount(MediaTypeAudio, DirectionOutput); got != 0 {
		t.Errorf("Expected no audio buses, got %d", got)
	}

	out := config.GetBusInfo(MediaTypeCV, DirectionOutput, 1)
	if out == nil {
		t.Fatal("Expected second output bus to exist")
	}
	if out.Name != "CV Out 2" || out.ChannelCount != 1 || !out.IsActive {
		t.Errorf("unexpected bus info %+v", out)
	}

	if config.GetBusInfo(MediaTypeCV, DirectionOutput, 2) != nil {
		t.Error("Expected nil for out of range bus")
	}

	if got := config.ChannelCount(DirectionInput); got != 1 {
		t.Errorf("input channels = %d, want 1", got)
	}
	if got := config.ChannelCount(DirectionOutput); got != 2 {
		t.Errorf("output channels = %d, want 2", got)
	}
}

func TestChannelNames(t *testing.T) {
	config := NewCVConfiguration(nil, []string{"CV Out"})
	config.Add(MediaTypeAudio, DirectionOutput, "Monitor", 2)

	names := config.ChannelNames(DirectionOutput)
	want := []string{"CV Out", "Monitor 1", "Monitor 2"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	config.GetBusInfo(MediaTypeAudio, DirectionOutput, 0).IsActive = false
	if got := config.ChannelCount(DirectionOutput); got != 1 {
		t.Errorf("inactive buses should not count, got %d", got)
	}
}

func TestMediaTypeString(t *testing.T) {
	if MediaTypeCV.String() != "CV" || MediaTypeAudio.String() != "Audio" || MediaType(9).String() != "Unknown" {
		t.Error("unexpected media type names")
	}
}
