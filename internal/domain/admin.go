package domain

type AdminConfig struct {
	PINHash            string `db:"pin_hash"`
	SecurityQuestion   string `db:"security_question"`
	SecurityAnswerHash string `db:"security_answer_hash"`
}

func (c AdminConfig) HasSecurityQuestion() bool {
	return c.SecurityQuestion != "" && c.SecurityAnswerHash != ""
}

type SecurityQuestion struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

var SecurityQuestions = []SecurityQuestion{
	{Key: "dog", Text: "What is your dog name?"},
	{Key: "nickname", Text: "What is your nick name?"},
	{Key: "surname", Text: "What is your surname?"},
	{Key: "village", Text: "What is your village name?"},
}

// QuestionText returns the display text for key, or "" when key is unknown.
func QuestionText(key string) string {
	for _, q := range SecurityQuestions {
		if q.Key == key {
			return q.Text
		}
	}
	return ""
}
