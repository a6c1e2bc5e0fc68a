package model

import (
	"encoding/json"
	"time"
)

type Evaluation struct {
	EvaluationID            int64    `gorm:"primaryKey;column:evaluation_id"`
	InterviewID             int64    `gorm:"column:interview_id;index"`
	QuestionID              int64    `gorm:"column:question_id;index"`
	ASRFilename             *string  `gorm:"column:asrfilename;type:text"`
	SemanticSimilarityScore *float64 `gorm:"column:semantic_similarity_score"`
	BroadTopicSimScore      *float64 `gorm:"column:broad_topic_sim_score"`
	GrammarScore            *float64 `gorm:"column:grammar_score"`
	DisfluencyScore         *float64 `gorm:"column:disfluency_score"`
	VideoFilename           *string  `gorm:"column:videofilename;type:text"`
	VideoFileS3Key          *string  `gorm:"column:videofile_s3key;type:text"`
	ASRFileS3Key            *string  `gorm:"column:asrfile_s3key;type:text"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

type EvaluationList []Evaluation

func (Evaluation) TableName() string {
	return "evaluation"
}

func (e Evaluation) String() string {
	val, _ := json.Marshal(e)
	return string(val)
}
