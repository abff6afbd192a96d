package protocol

import "github.com/pixil98/go-coop/internal/ids"

// Wire type identifiers.
const (
	TypeServerTimeSettings    = "server_time_settings"
	TypeServerSettings        = "server_settings"
	TypeAssignObjectsRequest  = "assign_objects_request"
	TypeAssignObjectsResponse = "assign_objects_response"
	TypeActivateRequest       = "activate_request"
	TypeNotifyActivate        = "notify_activate"
	TypeLockChangeRequest     = "lock_change_request"
	TypeNotifyLockChange      = "notify_lock_change"
	TypeScriptAnimRequest     = "script_animation_request"
	TypeNotifyScriptAnim      = "notify_script_animation"
	TypeNotifyPlayerJoined    = "notify_player_joined"
	TypeNotifyPlayerLeft      = "notify_player_left"
	TypeNotifyPlayerPosition  = "notify_player_position"
	TypeNotifyPlayerCell      = "notify_player_cell_changed"
	TypePlayerRespawnRequest  = "player_respawn_request"
	TypeNotifyPlayerRespawn   = "notify_player_respawn"
	TypeRequestSetWaypoint    = "request_set_waypoint"
	TypeRequestDelWaypoint    = "request_del_waypoint"
	TypeNotifySetWaypoint     = "notify_set_waypoint"
	TypeNotifyDelWaypoint     = "notify_del_waypoint"
	TypePlayerLevelRequest    = "player_level_request"
	TypeEnterExteriorCell     = "enter_exterior_cell_request"
	TypeEnterInteriorCell     = "enter_interior_cell_request"
	TypeShiftGridCell         = "shift_grid_cell_request"
	TypePlayerDialogue        = "player_dialogue_request"
)

// Message is implemented by every payload that can travel through the bridge.
type Message interface {
	MessageType() string
}

// ServerTimeSettings carries an authoritative clock sample.
type ServerTimeSettings struct {
	TimeScale float32 `json:"time_scale"`
	Time      float32 `json:"time"`
}

// ServerSettings carries session-wide gameplay settings.
type ServerSettings struct {
	Difficulty       int32 `json:"difficulty"`
	GreetingsEnabled bool  `json:"greetings_enabled"`
}

type AssignObjectsRequest struct {
	AreaId  ids.ServerId `json:"area_id"`
	Objects []ObjectData `json:"objects"`
}

type AssignObjectsResponse struct {
	Objects []ObjectData `json:"objects"`
}

type ActivateRequest struct {
	Id          ids.ServerId `json:"id"`
	CellId      ids.ServerId `json:"cell_id"`
	ActivatorId uint32       `json:"activator_id"`
}

type NotifyActivate struct {
	Id          ids.ServerId `json:"id"`
	ActivatorId uint32       `json:"activator_id"`
}

type LockChangeRequest struct {
	Id        ids.ServerId `json:"id"`
	CellId    ids.ServerId `json:"cell_id"`
	IsLocked  bool         `json:"is_locked"`
	LockLevel uint8        `json:"lock_level"`
}

type NotifyLockChange struct {
	Id        ids.ServerId `json:"id"`
	IsLocked  bool         `json:"is_locked"`
	LockLevel uint8        `json:"lock_level"`
}

type ScriptAnimationRequest struct {
	FormId    ids.ServerId `json:"form_id"`
	Animation string       `json:"animation"`
	EventName string       `json:"event_name"`
}

type NotifyScriptAnimation struct {
	FormId    ids.ServerId `json:"form_id"`
	Animation string       `json:"animation"`
	EventName string       `json:"event_name"`
}

type NotifyPlayerJoined struct {
	PlayerId     uint32       `json:"player_id"`
	AreaId       ids.ServerId `json:"area_id"`
	WorldSpaceId ids.ServerId `json:"world_space_id"`
	CenterCoords GridCoords   `json:"center_coords"`
	Username     string       `json:"username"`
}

type NotifyPlayerLeft struct {
	PlayerId uint32 `json:"player_id"`
	Username string `json:"username,omitempty"`
}

type NotifyPlayerPosition struct {
	PlayerId uint32 `json:"player_id"`
	Position Vec3   `json:"position"`
}

type NotifyPlayerCellChanged struct {
	PlayerId     uint32       `json:"player_id"`
	AreaId       ids.ServerId `json:"area_id"`
	WorldSpaceId ids.ServerId `json:"world_space_id"`
	CenterCoords GridCoords   `json:"center_coords"`
}

type PlayerRespawnRequest struct{}

type NotifyPlayerRespawn struct {
	GoldLost int32 `json:"gold_lost"`
}

type RequestSetWaypoint struct {
	Position Vec3 `json:"position"`
}

type RequestDelWaypoint struct{}

type NotifySetWaypoint struct {
	Position Vec3 `json:"position"`
}

type NotifyDelWaypoint struct{}

type PlayerLevelRequest struct {
	NewLevel uint16 `json:"new_level"`
}

type EnterExteriorCellRequest struct {
	CellId        ids.ServerId `json:"cell_id"`
	WorldSpaceId  ids.ServerId `json:"world_space_id"`
	CurrentCoords GridCoords   `json:"current_coords"`
}

type EnterInteriorCellRequest struct {
	CellId ids.ServerId `json:"cell_id"`
}

// ShiftGridCellRequest reports the exterior cells loaded around the player after the
// grid moved.
type ShiftGridCellRequest struct {
	WorldSpaceId ids.ServerId   `json:"world_space_id"`
	PlayerCell   ids.ServerId   `json:"player_cell"`
	CenterCoords GridCoords     `json:"center_coords"`
	Cells        []ids.ServerId `json:"cells"`
}

// PlayerDialogueRequest relays a line the party leader spoke.
type PlayerDialogueRequest struct {
	Text string `json:"text"`
}

func (ServerTimeSettings) MessageType() string       { return TypeServerTimeSettings }
func (ServerSettings) MessageType() string           { return TypeServerSettings }
func (AssignObjectsRequest) MessageType() string     { return TypeAssignObjectsRequest }
func (AssignObjectsResponse) MessageType() string    { return TypeAssignObjectsResponse }
func (ActivateRequest) MessageType() string          { return TypeActivateRequest }
func (NotifyActivate) MessageType() string           { return TypeNotifyActivate }
func (LockChangeRequest) MessageType() string        { return TypeLockChangeRequest }
func (NotifyLockChange) MessageType() string         { return TypeNotifyLockChange }
func (ScriptAnimationRequest) MessageType() string   { return TypeScriptAnimRequest }
func (NotifyScriptAnimation) MessageType() string    { return TypeNotifyScriptAnim }
func (NotifyPlayerJoined) MessageType() string       { return TypeNotifyPlayerJoined }
func (NotifyPlayerLeft) MessageType() string         { return TypeNotifyPlayerLeft }
func (NotifyPlayerPosition) MessageType() string     { return TypeNotifyPlayerPosition }
func (NotifyPlayerCellChanged) MessageType() string  { return TypeNotifyPlayerCell }
func (PlayerRespawnRequest) MessageType() string     { return TypePlayerRespawnRequest }
func (NotifyPlayerRespawn) MessageType() string      { return TypeNotifyPlayerRespawn }
func (RequestSetWaypoint) MessageType() string       { return TypeRequestSetWaypoint }
func (RequestDelWaypoint) MessageType() string       { return TypeRequestDelWaypoint }
func (NotifySetWaypoint) MessageType() string        { return TypeNotifySetWaypoint }
func (NotifyDelWaypoint) MessageType() string        { return TypeNotifyDelWaypoint }
func (PlayerLevelRequest) MessageType() string       { return TypePlayerLevelRequest }
func (EnterExteriorCellRequest) MessageType() string { return TypeEnterExteriorCell }
func (EnterInteriorCellRequest) MessageType() string { return TypeEnterInteriorCell }
func (ShiftGridCellRequest) MessageType() string     { return TypeShiftGridCell }
func (PlayerDialogueRequest) MessageType() string    { return TypePlayerDialogue }
