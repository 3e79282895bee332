package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int  `json:"max_queue,omitempty"`
	Events   bool `json:"events,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	SessionID       string        `json:"session_id"`
	FarmParams      FarmParams    `json:"farm_params"`
	Catalog         CatalogDigest `json:"catalog"`
}

type FarmParams struct {
	Width                int `json:"width"`
	Height               int `json:"height"`
	AutosaveSeconds      int `json:"autosave_seconds"`
	GrowthRefreshSeconds int `json:"growth_refresh_seconds"`
}

type CatalogDigest struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// ACT (client -> server). One action per message.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`
	Action          string `json:"action"`
	X               int    `json:"x,omitempty"`
	Y               int    `json:"y,omitempty"`
	Crop            string `json:"crop,omitempty"`
}

// RESULT (server -> client): outcome of one ACT.
type ResultMsg struct {
	Type    string    `json:"type"`
	ID      string    `json:"id,omitempty"`
	OK      bool      `json:"ok"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
	State   *StateMsg `json:"state,omitempty"`
}

// STATE (server -> client): full pull-based view of the farm.
type StateMsg struct {
	Type   string      `json:"type"`
	Now    int64       `json:"now"`
	Player PlayerState `json:"player"`
	Farm   FarmState   `json:"farm"`
}

type PlayerState struct {
	Coins          int64 `json:"coins"`
	Experience     int64 `json:"experience"`
	Level          int   `json:"level"`
	XPIntoLevel    int64 `json:"xp_into_level"`
	XPForNext      int64 `json:"xp_for_next"`
	TotalPlanted   int64 `json:"total_planted"`
	TotalHarvested int64 `json:"total_harvested"`
}

type FarmState struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Plots  []PlotState `json:"plots"`
}

type PlotState struct {
	X                int     `json:"x"`
	Y                int     `json:"y"`
	Crop             string  `json:"crop"`
	Glyph            string  `json:"glyph,omitempty"`
	PlantedAt        int64   `json:"planted_at"`
	Progress         float64 `json:"progress"`
	Ready            bool    `json:"ready"`
	RemainingSeconds int64   `json:"remaining_seconds"`
	Stage            string  `json:"stage"`
}

// EVENT (server -> client): pushed game events for clients that asked for them.
type EventMsg struct {
	Type  string `json:"type"`
	Kind  string `json:"kind"`
	At    int64  `json:"at"`
	Crop  string `json:"crop,omitempty"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	Coins int64  `json:"coins,omitempty"`
	XP    int64  `json:"xp,omitempty"`
	Level int    `json:"level,omitempty"`
}
