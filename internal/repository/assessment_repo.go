package repository

import (
	"context"
	"errors"

	"eunoia/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAssessmentExists is returned when an assessment with the same ID is
// already stored
var ErrAssessmentExists = errors.New("assessment already stored")

// AssessmentRepo handles MongoDB operations for risk assessments.
// Assessments are append-only.
type AssessmentRepo interface {
	Create(ctx context.Context, a *model.RiskAssessment) error
	ListByUser(ctx context.Context, userID string, limit int) ([]model.RiskAssessment, error)
	EnsureIndexes(ctx context.Context) error
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.RiskAssessment) error {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAssessmentExists
	}
	return err
}

// ListByUser returns the user's assessments, newest first
func (r *assessmentRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.RiskAssessment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assessments := []model.RiskAssessment{}
	if err := cursor.All(ctx, &assessments); err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
