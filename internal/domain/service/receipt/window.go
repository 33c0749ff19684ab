package receipt

import (
	"fmt"
	"time"

	"amo_checkbox/internal/config"
)

// Window суточное окно выдачи чеков по местному времени касс. Вне окна
// идёт плановое обслуживание смен, и выдача мягко откладывается.
type Window struct {
	location *time.Location
	openAt   dayTime
	closeAt  dayTime
}

type dayTime struct {
	hour   int
	minute int
}

func (t dayTime) minutes() int {
	return t.hour*60 + t.minute
}

func NewWindow(cfg config.Window) (Window, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Window{}, fmt.Errorf("time.LoadLocation %q: %w", cfg.Timezone, err)
	}

	openAt, err := parseDayTime(cfg.OpenAt)
	if err != nil {
		return Window{}, fmt.Errorf("window open %q: %w", cfg.OpenAt, err)
	}

	closeAt, err := parseDayTime(cfg.CloseAt)
	if err != nil {
		return Window{}, fmt.Errorf("window close %q: %w", cfg.CloseAt, err)
	}

	return Window{
		location: location,
		openAt:   openAt,
		closeAt:  closeAt,
	}, nil
}

// Allowed открытие включительно, закрытие исключительно: чеки разрешены
// при openAt <= t < closeAt по местному времени окна.
func (w Window) Allowed(t time.Time) bool {
	local := t.In(w.location)
	now := dayTime{hour: local.Hour(), minute: local.Minute()}

	return w.openAt.minutes() <= now.minutes() && now.minutes() < w.closeAt.minutes()
}

func (w Window) Location() *time.Location {
	return w.location
}

func parseDayTime(value string) (dayTime, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return dayTime{}, fmt.Errorf("time.Parse: %w", err)
	}

	return dayTime{hour: parsed.Hour(), minute: parsed.Minute()}, nil
}
