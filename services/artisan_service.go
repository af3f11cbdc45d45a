package services

import (
	"context"
	"sort"

	"marketplace/entity"
	"marketplace/pkg/logger"
	"marketplace/pkg/maps"
	"marketplace/repository"
)

type ArtisanService struct {
	userRepo *repository.UserRepository
	distance DistanceCalculator
}

func NewArtisanService(userRepo *repository.UserRepository, distance DistanceCalculator) *ArtisanService {
	return &ArtisanService{userRepo: userRepo, distance: distance}
}

type ArtisanView struct {
	entity.User
	Distance *maps.Distance `json:"distance,omitempty"`
}

// List returns artisans, optionally for one service. With an origin and a
// maps client the result carries distances and is sorted nearest first;
// artisans without a known distance go last.
func (s *ArtisanService) List(ctx context.Context, serviceID uint, lat, lng *float64) ([]ArtisanView, error) {
	users, err := s.userRepo.ListArtisans(serviceID)
	if err != nil {
		return nil, err
	}
	out := make([]ArtisanView, len(users))
	for i := range users {
		out[i] = ArtisanView{User: users[i]}
	}
	if s.distance == nil || lat == nil || lng == nil {
		return out, nil
	}

	origin := maps.LatLng(*lat, *lng)
	for i := range out {
		u := &out[i].User
		if !u.HasLocation() {
			continue
		}
		d, err := s.distance.Distance(ctx, origin, maps.LatLng(*u.Latitude, *u.Longitude))
		if err != nil {
			logger.Default().Warnf("distance to artisan %d: %v", u.ID, err)
			continue
		}
		out[i].Distance = d
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Distance, out[j].Distance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Meters < b.Meters
		}
	})
	return out, nil
}
