// Package maps wraps the Google Maps distance matrix API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	gmaps "googlemaps.github.io/maps"
)

var ErrNoRoute = errors.New("maps: no route between origin and destination")

type distanceMatrixer interface {
	DistanceMatrix(ctx context.Context, r *gmaps.DistanceMatrixRequest) (*gmaps.DistanceMatrixResponse, error)
}

type Client struct {
	api distanceMatrixer
}

func New(apiKey string) (*Client, error) {
	c, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Client{api: c}, nil
}

func newWithAPI(api distanceMatrixer) *Client {
	return &Client{api: api}
}

type Distance struct {
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	Meters       int           `json:"meters"`
	Text         string        `json:"text"`
	Duration     time.Duration `json:"duration"`
	DurationText string        `json:"durationText"`
}

// LatLng formats coordinates the way the API accepts them as an address.
func LatLng(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// Distance asks for the driving distance between two places (addresses or
// "lat,lng") and returns the single element of the matrix.
func (c *Client) Distance(ctx context.Context, origin, destination string) (*Distance, error) {
	res, err := c.api.DistanceMatrix(ctx, &gmaps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         gmaps.TravelModeDriving,
		Units:        gmaps.UnitsMetric,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 || len(res.Rows[0].Elements) == 0 {
		return nil, ErrNoRoute
	}
	el := res.Rows[0].Elements[0]
	if el.Status != "OK" {
		return nil, fmt.Errorf("%w (%s)", ErrNoRoute, el.Status)
	}

	d := &Distance{
		Origin:       origin,
		Destination:  destination,
		Meters:       el.Distance.Meters,
		Text:         el.Distance.HumanReadable,
		Duration:     el.Duration,
		DurationText: el.Duration.Round(time.Minute).String(),
	}
	if len(res.OriginAddresses) > 0 {
		d.Origin = res.OriginAddresses[0]
	}
	if len(res.DestinationAddresses) > 0 {
		d.Destination = res.DestinationAddresses[0]
	}
	return d, nil
}
