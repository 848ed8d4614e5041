package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound command payloads.

type JoinRoomData struct {
	RoomId string `json:"room_id"`
}

type StartGameData struct {
	RoomId string `json:"room_id"`
}

type GuessData struct {
	RoomId string `json:"room_id"`
	Guess  string `json:"guess"`
}

type HintRequestData struct {
	RoomId string `json:"room_id"`
}

// Outbound notification payloads.

// CardView is a card as shown to a particular player. Name is omitted for
// the current guesser.
type CardView struct {
	Id         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Difficulty CardDifficulty `json:"difficulty"`
	Category   string         `json:"category"`
	HintCount  int            `json:"hint_count"`
}

type JoinedRoomData struct {
	RoomId      string `json:"room_id"`
	PlayerId    string `json:"player_id"`
	PlayerCount int    `json:"player_count"`
}

type UserJoinedData struct {
	RoomId   string `json:"room_id"`
	PlayerId string `json:"player_id"`
	Username string `json:"username"`
}

type UserLeftData struct {
	RoomId   string `json:"room_id"`
	PlayerId string `json:"player_id"`
}

type GameStartedData struct {
	GameId    string        `json:"game_id"`
	GameState GameStateData `json:"game_state"`
}

type GameStateData struct {
	RoomId         string         `json:"room_id"`
	Phase          SessionPhase   `json:"phase"`
	Round          int            `json:"round"`
	MaxRounds      int            `json:"max_rounds"`
	CurrentGuesser string         `json:"current_guesser"`
	Scores         map[string]int `json:"scores"`
	Card           *CardView      `json:"card,omitempty"`
	TimeRemaining  int64          `json:"time_remaining_ms"`
}

type NewRoundData struct {
	Round          int       `json:"round"`
	Card           *CardView `json:"card"`
	CurrentGuesser string    `json:"current_guesser"`
	TimeLimit      int64     `json:"time_limit_ms"`
}

type CorrectGuessData struct {
	Guesser string         `json:"guesser"`
	Card    *Card          `json:"card"`
	Scores  map[string]int `json:"scores"`
}

type IncorrectGuessData struct {
	Guesser string `json:"guesser"`
	Guess   string `json:"guess"`
}

type RoundTimeoutData struct {
	Round         int    `json:"round"`
	CorrectAnswer string `json:"correct_answer"`
}

type GameEndedData struct {
	FinalScores map[string]int `json:"final_scores"`
	Results     []GameResult   `json:"results"`
	Winner      string         `json:"winner"`
	Reason      string         `json:"reason,omitempty"`
}

type HintReceivedData struct {
	Hint string `json:"hint"`
}

type ErrorData struct {
	Message string `json:"message"`
}
