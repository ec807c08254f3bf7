package draft

import "time"

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type ControllerType string

const (
	ControllerCPU  ControllerType = "CPU"
	ControllerUser ControllerType = "USER"
)

// Slot is one selection opportunity. Overall is unique across the draft.
type Slot struct {
	Round            int    `json:"round"`
	PickInRound      int    `json:"pickInRound"`
	Overall          int    `json:"overall"`
	TeamCode         string `json:"teamCode"`
	OriginalTeamCode string `json:"originalTeamCode,omitempty"`
}

// Trade moves ownership of a single pick.
type Trade struct {
	PickOverall int    `json:"pickOverall" yaml:"pickOverall"`
	FromTeam    string `json:"fromTeam" yaml:"fromTeam"`
	ToTeam      string `json:"toTeam" yaml:"toTeam"`
}

type Team struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
	// Needs is a priority list; index 0 is the most pressing need.
	Needs        []string `json:"needs" yaml:"needs"`
	PrimaryColor string   `json:"primaryColor" yaml:"primaryColor"`
	CapSpace     float64  `json:"capSpace" yaml:"capSpace"`
}

type Player struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Position       string   `json:"position" yaml:"position"`
	College        string   `json:"college" yaml:"college"`
	Grade          float64  `json:"grade" yaml:"grade"`
	ProjectedRound int      `json:"projectedRound" yaml:"projectedRound"`
	Height         string   `json:"height,omitempty" yaml:"height"`
	Weight         int      `json:"weight,omitempty" yaml:"weight"`
	Age            int      `json:"age,omitempty" yaml:"age"`
	Strengths      []string `json:"strengths,omitempty" yaml:"strengths"`
	Weaknesses     []string `json:"weaknesses,omitempty" yaml:"weaknesses"`
	Comparison     string   `json:"comparison,omitempty" yaml:"comparison"`
}

type Pick struct {
	Round   int    `json:"round"`
	Pick    int    `json:"pick"`
	Overall int    `json:"overall"`
	Team    string `json:"team"`
	Player  Player `json:"player"`
}

type Controller struct {
	Type ControllerType `json:"type"`
	Name string         `json:"name"`
}

type Session struct {
	Code               string                `json:"code"`
	Status             Status                `json:"status"`
	Rounds             int                   `json:"rounds"`
	SlotsPerRound      int                   `json:"slotsPerRound"`
	CurrentPickIndex   int                   `json:"currentPickIndex"`
	TeamControllers    map[string]Controller `json:"teamControllers"`
	Picks              []Pick                `json:"picks"`
	AvailablePlayerIDs []string              `json:"availablePlayerIds"`
	Trades             []Trade               `json:"trades,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// NewSession returns a session in its initial waiting state.
func NewSession(code string) Session {
	return Session{
		Code:               code,
		Status:             StatusWaiting,
		TeamControllers:    map[string]Controller{},
		Picks:              []Pick{},
		AvailablePlayerIDs: []string{},
	}
}

// Clone deep-copies the mutable parts so reducers never alias the caller's slices.
func (s Session) Clone() Session {
	out := s
	out.TeamControllers = make(map[string]Controller, len(s.TeamControllers))
	for k, v := range s.TeamControllers {
		out.TeamControllers[k] = v
	}
	out.Picks = append([]Pick{}, s.Picks...)
	out.AvailablePlayerIDs = append([]string{}, s.AvailablePlayerIDs...)
	if s.Trades != nil {
		out.Trades = append([]Trade{}, s.Trades...)
	}
	return out
}

// TeamPicks filters picks down to those made by team, in draft order.
func TeamPicks(picks []Pick, team string) []Pick {
	var out []Pick
	for _, p := range picks {
		if p.Team == team {
			out = append(out, p)
		}
	}
	return out
}
