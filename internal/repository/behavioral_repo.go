package repository

import (
	"context"

	"eunoia/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BehavioralRepo stores text analyses in the behavioral_data collection
type BehavioralRepo interface {
	Create(ctx context.Context, a *model.TextAnalysis) error
}

type behavioralRepo struct {
	collection *mongo.Collection
}

// NewBehavioralRepo creates a new behavioral data repository
func NewBehavioralRepo(db *mongo.Database) BehavioralRepo {
	return &behavioralRepo{
		collection: db.Collection("behavioral_data"),
	}
}

func (r *behavioralRepo) Create(ctx context.Context, a *model.TextAnalysis) error {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, a)
	return err
}
