package service

import (
	"io"

	"rechenraum/internal/model"
	"rechenraum/internal/report"
)

// ReportService produces the downloadable result report for a room. It
// needs nothing beyond a point-in-time read of the finished players.
type ReportService struct {
	roomSvc *RoomService
}

// NewReportService creates a new report service.
func NewReportService(roomSvc *RoomService) *ReportService {
	return &ReportService{roomSvc: roomSvc}
}

// WritePDF renders the room's report into w. Fails with
// model.ErrRoomNotFound or model.ErrNoFinishedPlayers.
func (s *ReportService) WritePDF(w io.Writer, code string) error {
	room, finished, err := s.roomSvc.FinishedPlayers(code)
	if err != nil {
		return err
	}
	return report.Generate(w, room.Code, finished)
}

// Finished exposes the finished-player list for callers that want the
// raw data instead of the rendered document.
func (s *ReportService) Finished(code string) ([]model.PlayerView, error) {
	_, finished, err := s.roomSvc.FinishedPlayers(code)
	return finished, err
}
