package consolidate

import (
	"testing"

	"github.com/grovetools/surround/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stereo() *models.StreamFormat {
	return &models.StreamFormat{
		Format:       "pcm",
		SampleFormat: "float32le",
		Rate:         "48000",
		Channels:     "2",
		ChannelMap:   []string{"front-left", "front-right"},
	}
}

func surround71() *models.StreamFormat {
	return &models.StreamFormat{
		Format:       "pcm",
		SampleFormat: "float32le",
		Rate:         "48000",
		Channels:     "8",
		ChannelMap:   []string{"front-left", "front-right", "front-center", "lfe", "rear-left", "rear-right", "side-left", "side-right"},
	}
}

func record(index int, name string) models.RawStreamRecord {
	return models.RawStreamRecord{Index: models.IntPtr(index), Name: name}
}

func TestConsolidateMergesStreamsOfOneApp(t *testing.T) {
	a := record(1, "Game A")
	a.Format = stereo()
	b := record(2, "Game A")
	b.Format = surround71()

	apps := Consolidate([]models.RawStreamRecord{a, b}, []string{"Game A"})

	require.Len(t, apps, 1)
	assert.Equal(t, "Game A", apps[0].Name)
	assert.Equal(t, 1, apps[0].Index)
	assert.Len(t, apps[0].Formats, 2)
	assert.True(t, apps[0].Enabled)
	assert.False(t, apps[0].ConnectedToVirtualSink)
}

func TestConsolidateSkipsInvalidRecords(t *testing.T) {
	records := []models.RawStreamRecord{
		{Index: nil, Name: "No Index"},
		record(3, "   "),
		record(4, ""),
		record(5, "  Player  "),
	}

	apps := Consolidate(records, nil)

	require.Len(t, apps, 1)
	assert.Equal(t, "Player", apps[0].Name)
	assert.Equal(t, 5, apps[0].Index)
}

func TestConsolidateIndexIsMinimum(t *testing.T) {
	records := []models.RawStreamRecord{
		record(9, "Game A"),
		record(4, "Game A"),
		record(7, "Game A"),
		record(2, "Game B"),
	}

	apps := Consolidate(records, nil)

	require.Len(t, apps, 2)
	assert.Equal(t, 4, apps[0].Index)
	assert.Equal(t, 2, apps[1].Index)
	// Insertion order follows first appearance, not index.
	assert.Equal(t, []string{"Game A", "Game B"}, []string{apps[0].Name, apps[1].Name})
}

func TestConsolidateDeduplicatesFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []*models.StreamFormat
		want    int
	}{
		{"identical", []*models.StreamFormat{stereo(), stereo()}, 1},
		{"different channel map", []*models.StreamFormat{stereo(), func() *models.StreamFormat {
			f := stereo()
			f.ChannelMap = []string{"front-right", "front-left"}
			return f
		}()}, 2},
		{"different rate", []*models.StreamFormat{stereo(), func() *models.StreamFormat {
			f := stereo()
			f.Rate = "44100"
			return f
		}()}, 2},
		{"missing formats collapse to unknown", []*models.StreamFormat{nil, nil}, 1},
		{"unknown plus known", []*models.StreamFormat{nil, stereo(), stereo()}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []models.RawStreamRecord
			for i, f := range tt.formats {
				r := record(i, "App")
				r.Format = f
				records = append(records, r)
			}
			apps := Consolidate(records, nil)
			require.Len(t, apps, 1)
			assert.Len(t, apps[0].Formats, tt.want)
		})
	}
}

func TestConsolidateUnknownFormatDefault(t *testing.T) {
	apps := Consolidate([]models.RawStreamRecord{record(1, "App")}, nil)
	require.Len(t, apps, 1)
	require.Len(t, apps[0].Formats, 1)
	assert.Equal(t, "Unknown", apps[0].Formats[0].Format)
	assert.Empty(t, apps[0].Formats[0].Rate)
	assert.NotNil(t, apps[0].Formats[0].ChannelMap)
}

func TestConsolidateEmptyValuesNeverClobber(t *testing.T) {
	first := record(1, "Game A")
	first.Volume = "FL: 100%, FR: 100%"
	first.TargetObject = "alsa_output.usb"
	first.Sink = models.IntPtr(42)
	second := record(2, "Game A")

	apps := Consolidate([]models.RawStreamRecord{first, second}, nil)

	require.Len(t, apps, 1)
	assert.Equal(t, "FL: 100%, FR: 100%", apps[0].Volume)
	assert.Equal(t, "alsa_output.usb", apps[0].TargetObject)
	require.NotNil(t, apps[0].Sink)
	assert.Equal(t, 42, *apps[0].Sink)

	third := record(3, "Game A")
	third.Volume = "FL: 50%"
	third.Sink = models.IntPtr(7)
	apps = Consolidate([]models.RawStreamRecord{first, second, third}, nil)
	assert.Equal(t, "FL: 50%", apps[0].Volume)
	assert.Equal(t, 7, *apps[0].Sink)
}

func TestConsolidateIsIdempotent(t *testing.T) {
	a := record(3, "Game A")
	a.Format = stereo()
	b := record(1, "Music")
	b.Volume = "FL: 40%"
	c := record(2, "Game A")
	c.Format = surround71()
	c.TargetObject = "sink-x"
	records := []models.RawStreamRecord{a, b, c}

	first := Consolidate(records, []string{"Music"})
	second := Consolidate(records, []string{"Music"})

	assert.Equal(t, first, second)
}

func TestConsolidateDoesNotAliasInput(t *testing.T) {
	r := record(1, "App")
	r.Format = stereo()
	apps := Consolidate([]models.RawStreamRecord{r}, nil)

	r.Format.ChannelMap[0] = "mutated"
	assert.Equal(t, "front-left", apps[0].Formats[0].ChannelMap[0])
}

func TestFilter(t *testing.T) {
	f, err := NewFilter([]string{"steamwebhelper", "Chromium*", "!Chromium Player"})
	require.NoError(t, err)

	records := []models.RawStreamRecord{
		record(1, "steamwebhelper"),
		record(2, "Chromium Helper"),
		record(3, "Chromium Player"),
		record(4, "Game A"),
	}
	kept := f.Apply(records)

	var names []string
	for _, r := range kept {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Chromium Player", "Game A"}, names)
}

func TestFilterEmptyKeepsEverything(t *testing.T) {
	f, err := NewFilter([]string{" ", ""})
	require.NoError(t, err)
	assert.Nil(t, f)

	records := []models.RawStreamRecord{record(1, "steamwebhelper")}
	assert.Equal(t, records, f.Apply(records))
	assert.False(t, f.Ignored("steamwebhelper"))
}

func TestFilterMatchesWholeNames(t *testing.T) {
	f, err := NewFilter([]string{"Steam", "Chromium*"})
	require.NoError(t, err)

	assert.True(t, f.Ignored("Steam"))
	assert.False(t, f.Ignored("Steam/Overlay"))
	assert.False(t, f.Ignored("Steam Overlay"))
	assert.True(t, f.Ignored("Chromium Helper"))
	assert.False(t, f.Ignored("Chromium/Helper"))
}

func TestFilterExclusionReincludes(t *testing.T) {
	f, err := NewFilter([]string{"Game*", "!Game B", "Game B"})
	require.NoError(t, err)

	assert.True(t, f.Ignored("Game A"))
	assert.True(t, f.Ignored("Game B"))

	f, err = NewFilter([]string{"Game*", "!Game B"})
	require.NoError(t, err)
	assert.False(t, f.Ignored("Game B"))
}
