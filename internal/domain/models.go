package domain

import "encoding/json"

// WebhookPayload представляет входящий батч твитов от TwitterAPI.io.
// Твиты хранятся сырым JSON, чтобы одна битая запись не ломала разбор всего батча.
type WebhookPayload struct {
	EventType string            `json:"event_type"`
	RuleID    string            `json:"rule_id"`
	RuleTag   string            `json:"rule_tag"`
	Tweets    []json.RawMessage `json:"tweets"`
}

// Tweet представляет один сырой твит из батча провайдера
type Tweet struct {
	ID           *string `json:"id"`
	Text         string  `json:"text"`
	Author       *Author `json:"author"`
	CreatedAt    *string `json:"created_at"`
	RetweetCount int     `json:"retweet_count"`
	LikeCount    int     `json:"like_count"`
	ReplyCount   int     `json:"reply_count"`
}

// Author описывает автора твита; любое из полей провайдер может не прислать
type Author struct {
	ID       *string `json:"id"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
}

// Metrics содержит счётчики твита, по умолчанию нули
type Metrics struct {
	RetweetCount int `json:"retweet_count"`
	LikeCount    int `json:"like_count"`
	ReplyCount   int `json:"reply_count"`
}

// RuleInfo описывает правило стриминга, по которому провайдер доставил батч
type RuleInfo struct {
	RuleID  string `json:"rule_id"`
	RuleTag string `json:"rule_tag"`
}

// ProcessedTweet представляет нормализованную запись для дневного файла.
// ProcessedAt заполняется только в serverless-варианте.
type ProcessedTweet struct {
	ID          *string  `json:"id"`
	Text        string   `json:"text"`
	Author      Author   `json:"author"`
	CreatedAt   *string  `json:"created_at"`
	Metrics     Metrics  `json:"metrics"`
	RuleInfo    RuleInfo `json:"rule_info"`
	ProcessedAt *string  `json:"processed_at,omitempty"`
}
