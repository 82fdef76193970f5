package models

import "time"

// Question is a four-option multiple choice question from the catalog.
type Question struct {
	ID               int64     `json:"id" db:"id"`
	KnowledgePointID int64     `json:"knowledge_point_id" db:"knowledge_point_id"`
	Text             string    `json:"text" db:"text"`
	OptionA          string    `json:"option_a" db:"option_a"`
	OptionB          string    `json:"option_b" db:"option_b"`
	OptionC          string    `json:"option_c" db:"option_c"`
	OptionD          string    `json:"option_d" db:"option_d"`
	CorrectIndex     int       `json:"correct_index" db:"correct_index"` // 0-3
	Explanation      string    `json:"explanation" db:"explanation"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Options returns the four answer options in order.
func (q *Question) Options() [4]string {
	return [4]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// ClientQuestion is the view of a question exposed to players: the correct
// answer index and the explanation are stripped.
type ClientQuestion struct {
	ID               int64     `json:"id"`
	KnowledgePointID int64     `json:"knowledge_point_id"`
	Text             string    `json:"text"`
	Options          [4]string `json:"options"`
}

// Client returns the answer-stripped view of the question.
func (q *Question) Client() ClientQuestion {
	return ClientQuestion{
		ID:               q.ID,
		KnowledgePointID: q.KnowledgePointID,
		Text:             q.Text,
		Options:          q.Options(),
	}
}
