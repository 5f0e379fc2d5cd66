package upstreamapi

import "time"

// rawVessel mirrors the upstream vessel-locations payload: a top-level
// array of vessel records.
type rawVessel struct {
	VesselID            int    `json:"VesselID"`
	VesselName          string `json:"VesselName"`
	DepartingTerminalID int    `json:"DepartingTerminalID"`
	ArrivingTerminalID  int    `json:"ArrivingTerminalID"`
	AtDock              bool   `json:"AtDock"`
	LeftDock            string `json:"LeftDock"`
	Eta                 string `json:"Eta"`
	ScheduledDeparture  string `json:"ScheduledDeparture"`
	TimeStamp           string `json:"TimeStamp"`
}

// rawTerminalSpace mirrors one entry of the top-level terminal-space array.
type rawTerminalSpace struct {
	TerminalID      int                    `json:"TerminalID"`
	TerminalName    string                 `json:"TerminalName"`
	DepartingSpaces []rawDepartingSpace    `json:"DepartingSpaces"`
}

type rawDepartingSpace struct {
	Departure               string                        `json:"Departure"`
	VesselID                int                           `json:"VesselID"`
	VesselName              string                        `json:"VesselName"`
	SpaceForArrivalTerminals []rawSpaceForArrivalTerminal `json:"SpaceForArrivalTerminals"`
}

type rawSpaceForArrivalTerminal struct {
	ArrivingTerminalID int  `json:"ArrivingTerminalID"`
	DriveUpSpaceCount  *int `json:"DriveUpSpaceCount"`
	MaxSpaceCount      int  `json:"MaxSpaceCount"`
}

// rawSchedule mirrors the schedule payload's top-level object shape.
type rawSchedule struct {
	TerminalCombos []rawTerminalCombo `json:"TerminalCombos"`
}

type rawTerminalCombo struct {
	DepartingTerminalID   int           `json:"DepartingTerminalID"`
	DepartingTerminalName string        `json:"DepartingTerminalName"`
	ArrivingTerminalID    int           `json:"ArrivingTerminalID"`
	Times                 []rawSailing  `json:"Times"`
}

type rawSailing struct {
	VesselPositionNum int    `json:"VesselPositionNum"`
	VesselID          int    `json:"VesselID"`
	VesselName        string `json:"VesselName"`
	DepartingTime     string `json:"DepartingTime"`
	IsCancelled       bool   `json:"IsCancelled"`
}

// TerminalSpace is the normalised (still feed-shaped, per spec §4.G) form
// of one terminal's departing-space records, with dates parsed.
type TerminalSpace struct {
	TerminalID      int
	TerminalName    string
	DepartingSpaces []DepartingSpace
}

type DepartingSpace struct {
	Departure                time.Time
	VesselID                 int
	VesselName               string
	SpaceForArrivalTerminals []SpaceForArrivalTerminal
}

type SpaceForArrivalTerminal struct {
	ArrivingTerminalID int
	DriveUpSpaceCount  *int
	MaxSpaceCount      int
}

// ScheduleRow is one flattened scheduled departure.
type ScheduleRow struct {
	RouteID             int
	DepartingTerminalID int
	VesselPositionNum   int
	VesselID            int
	VesselName          string
	DepartingTime       time.Time
	IsCancelled         bool
}
