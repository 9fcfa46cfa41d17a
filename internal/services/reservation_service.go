package services

import (
	"strings"

	"zanovi/internal/domain"
	"zanovi/internal/repos"
)

// ReservationService manages the gaming-corner consoles and their
// reservations.
type ReservationService struct {
	Consoles *repos.ConsoleRepo
}

func NewReservationService(consoles *repos.ConsoleRepo) *ReservationService {
	return &ReservationService{Consoles: consoles}
}

func (s *ReservationService) ListConsoles() ([]domain.Console, error) {
	return s.Consoles.List()
}

func (s *ReservationService) AddConsole(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidQuantity
	}
	return s.Consoles.Add(name)
}

func (s *ReservationService) DeleteConsole(id string) error {
	return s.Consoles.Delete(id)
}

func (s *ReservationService) ListReservations() ([]domain.Reservation, error) {
	return s.Consoles.ListReservations()
}

func (s *ReservationService) CreateReservation(rv domain.Reservation) (string, error) {
	if rv.DurationHours < 1 || rv.Persons < 1 || strings.TrimSpace(rv.DateTime) == "" {
		return "", ErrInvalidQuantity
	}
	if _, err := s.Consoles.Get(rv.ConsoleID); err != nil {
		return "", err
	}
	return s.Consoles.CreateReservation(rv)
}

func (s *ReservationService) DeleteReservation(id string) error {
	return s.Consoles.DeleteReservation(id)
}
