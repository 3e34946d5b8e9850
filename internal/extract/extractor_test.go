package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/stac"
)

func TestRunRejectsUnknownSensor(t *testing.T) {
	e := NewExtractor(stac.NewClient(stac.Config{}), nil)
	_, err := e.Run(context.Background(), Job{
		Sensor: "not-a-sensor",
		Bbox:   model.AOI{West: 0, South: 0, East: 1, North: 1},
		Bands:  []string{"red"},
	})
	require.Error(t, err)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRunRejectsInvalidBands(t *testing.T) {
	e := NewExtractor(stac.NewClient(stac.Config{}), nil)
	_, err := e.Run(context.Background(), Job{
		Sensor: model.SensorSentinel2,
		Bbox:   model.AOI{West: 0, South: 0, East: 1, North: 1},
		Bands:  []string{"not-a-band"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid band names")
}

func TestRunRejectsInvalidBbox(t *testing.T) {
	e := NewExtractor(stac.NewClient(stac.Config{}), nil)
	_, err := e.Run(context.Background(), Job{
		Sensor: model.SensorSentinel2,
		Bbox:   model.AOI{West: 1, South: 0, East: 0, North: 1}, // west >= east
		Bands:  []string{"red"},
	})
	require.Error(t, err)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}
