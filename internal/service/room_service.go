package service

import (
	"context"
	"strings"
	"time"

	"hotelbooking/internal/access"
	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
)

type RoomService struct {
	repo   domain.Repository
	cfg    config.BookingConfig
	now    func() time.Time
	logger *zerolog.Logger
}

func NewRoomService(repo domain.Repository, cfg config.BookingConfig, logger *zerolog.Logger) *RoomService {
	return &RoomService{repo: repo, cfg: cfg, now: time.Now, logger: orNop(logger)}
}

func validateRoom(in models.RoomInput) (*models.Room, error) {
	room := &models.Room{
		RoomNumber:  strings.TrimSpace(in.RoomNumber),
		Type:        in.Type,
		Price:       in.Price,
		Capacity:    in.Capacity,
		Description: strings.TrimSpace(in.Description),
		Images:      in.Images,
	}
	if room.RoomNumber == "" {
		return nil, domain.Validation("roomNumber is required")
	}
	if !models.ValidRoomType(room.Type) {
		return nil, domain.Validation("room type must be one of Standard, Deluxe, Suite")
	}
	if room.Price <= 0 {
		return nil, domain.Validation("price must be positive")
	}
	if room.Capacity <= 0 {
		return nil, domain.Validation("capacity must be positive")
	}
	if room.Images == nil {
		room.Images = []string{}
	}
	return room, nil
}

func (s *RoomService) CreateRoom(ctx context.Context, actor models.Actor, in models.RoomInput) (*models.Room, error) {
	if err := access.Check(access.ManageRooms, actor, 0); err != nil {
		return nil, err
	}
	room, err := validateRoom(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("room_id", room.ID).Str("room_number", room.RoomNumber).Msg("room created")
	return room, nil
}

// UpdateRoom replaces every room field. A price change does not reprice existing bookings.
func (s *RoomService) UpdateRoom(ctx context.Context, actor models.Actor, id int64, in models.RoomInput) (*models.Room, error) {
	if err := access.Check(access.ManageRooms, actor, 0); err != nil {
		return nil, err
	}
	room, err := validateRoom(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	room.ID = existing.ID
	room.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("room_id", room.ID).Msg("room updated")
	return room, nil
}

// DeleteRoom removes the room. Its bookings stay; they hold a weak reference.
func (s *RoomService) DeleteRoom(ctx context.Context, actor models.Actor, id int64) error {
	if err := access.Check(access.ManageRooms, actor, 0); err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("room_id", id).Msg("room deleted")
	return nil
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.RoomWithBookings, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withBookedTime(ctx, room)
}

func (s *RoomService) ListRooms(ctx context.Context, filter models.RoomFilter) (*models.Page[*models.RoomWithBookings], error) {
	if filter.Type != "" && !models.ValidRoomType(filter.Type) {
		return nil, domain.Validation("unknown room type %q", filter.Type)
	}
	if filter.CapacityGte < 0 {
		return nil, domain.Validation("capacityGte cannot be negative")
	}
	filter.Pagination = filter.Pagination.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)

	rooms, total, err := s.repo.ListRooms(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*models.RoomWithBookings, 0, len(rooms))
	for _, room := range rooms {
		r, err := s.withBookedTime(ctx, room)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return &models.Page[*models.RoomWithBookings]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// withBookedTime attaches the Confirmed stays that have not ended yet.
func (s *RoomService) withBookedTime(ctx context.Context, room *models.Room) (*models.RoomWithBookings, error) {
	intervals, err := s.repo.GetRoomBookedIntervals(ctx, room.ID, startOfDay(s.now()))
	if err != nil {
		return nil, err
	}
	return &models.RoomWithBookings{Room: *room, BookedTime: intervals}, nil
}
