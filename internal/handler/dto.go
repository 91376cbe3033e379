package handler

import (
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
)

// LogEntryDTO is the JSON representation of a log entry.
type LogEntryDTO struct {
	ID       int64  `json:"id"`
	FireID   int64  `json:"fireId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	LoggedAt string `json:"loggedAt"`
}

func toLogEntryDTO(e domain.LogEntry) LogEntryDTO {
	return LogEntryDTO{
		ID:       e.ID,
		FireID:   e.FireID,
		Size:     string(e.Size),
		Quantity: e.Quantity,
		LoggedAt: e.LoggedAt.Format(time.RFC3339),
	}
}

func toLogEntryDTOs(entries []domain.LogEntry) []LogEntryDTO {
	dtos := make([]LogEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toLogEntryDTO(e)
	}
	return dtos
}

// FireDTO is the JSON representation of a fire.
type FireDTO struct {
	ID        int64         `json:"id"`
	StartedAt string        `json:"startedAt"`
	EndedAt   *string       `json:"endedAt"`
	Logs      []LogEntryDTO `json:"logs"`
}

func toFireDTO(f *domain.Fire) FireDTO {
	dto := FireDTO{
		ID:        f.ID,
		StartedAt: f.StartedAt.Format(time.RFC3339),
		Logs:      toLogEntryDTOs(f.Logs),
	}
	if f.EndedAt != nil {
		ended := f.EndedAt.Format(time.RFC3339)
		dto.EndedAt = &ended
	}
	return dto
}

// SeasonStatsDTO is the JSON representation of the season snapshot.
type SeasonStatsDTO struct {
	SeasonStart   string   `json:"seasonStart"`
	FireCount     int      `json:"fireCount"`
	TotalLogs     int      `json:"totalLogs"`
	SmallCount    int      `json:"smallCount"`
	MediumCount   int      `json:"mediumCount"`
	LargeCount    int      `json:"largeCount"`
	WeightedUnits float64  `json:"weightedUnits"`
	CordsBurned   float64  `json:"cordsBurned"`
	Progress      *float64 `json:"progress"`
	ActiveFire    *FireDTO `json:"activeFire"`
}

func toSeasonStatsDTO(snap *service.SeasonSnapshot) SeasonStatsDTO {
	dto := SeasonStatsDTO{
		SeasonStart:   snap.SeasonStart.Format(time.RFC3339),
		FireCount:     snap.FireCount,
		TotalLogs:     snap.TotalLogs,
		SmallCount:    snap.SmallCount,
		MediumCount:   snap.MediumCount,
		LargeCount:    snap.LargeCount,
		WeightedUnits: snap.WeightedUnits,
		CordsBurned:   snap.CordsBurned,
		Progress:      snap.Progress,
	}
	if snap.ActiveFire != nil {
		fire := toFireDTO(snap.ActiveFire)
		dto.ActiveFire = &fire
	}
	return dto
}
