package api

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
}

type AccountModel struct {
	URI             string `json:"uri,omitempty"`
	ID              string `json:"id,omitempty"`
	Username        string `json:"username"`
	Password        string `json:"password,omitempty"`
	Role            string `json:"role,omitempty"`
	PermissionLevel int    `json:"permission_level"`
	Created         string `json:"created,omitempty"`
	Modified        string `json:"modified,omitempty"`
	LastLogoutTime  string `json:"last_logout,omitempty"`
	LastLoginTime   string `json:"last_login,omitempty"`
}

type CommandRequest struct {
	Command  string `json:"command"`
	AsPlayer bool   `json:"as_player,omitempty"`
}

type CommandResponse struct {
	OK     bool     `json:"ok"`
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
}

type PlayerModel struct {
	Name            string     `json:"name"`
	Online          bool       `json:"online"`
	Gamemode        string     `json:"gamemode"`
	PermissionLevel int        `json:"permission_level"`
	Position        [3]float64 `json:"position"`
}

type CommandModel struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	Usage       []string `json:"usage"`
}

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		Tunacmd string `json:"tunacmd"`
	} `json:"version"`
	World string `json:"world,omitempty"`
}
