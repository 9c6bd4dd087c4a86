package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestOwnerChangePipelineScopesToOwner(t *testing.T) {
	pipeline := ownerChangePipeline("user-a")

	if len(pipeline) != 1 {
		t.Fatalf("expected a single $match stage, got %d stages", len(pipeline))
	}
	stage := pipeline[0]
	if stage[0].Key != "$match" {
		t.Fatalf("expected a $match stage, got %q", stage[0].Key)
	}

	match, ok := stage[0].Value.(bson.M)
	if !ok {
		t.Fatalf("unexpected match value type %T", stage[0].Value)
	}
	arms, ok := match["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected an $or of arms, got %T", match["$or"])
	}

	// Every arm that inspects a document must pin it to the requested
	// owner; only the delete arm, which has no document, may pass without
	// an owner check.
	deleteArms := 0
	for _, arm := range arms {
		if op, ok := arm["operationType"]; ok {
			if op != "delete" {
				t.Errorf("unexpected unscoped operation arm: %v", arm)
			}
			deleteArms++
			continue
		}
		for field, value := range arm {
			if value != "user-a" {
				t.Errorf("arm %q matches %v instead of the owner", field, value)
			}
		}
	}
	if deleteArms != 1 {
		t.Errorf("expected exactly one delete pass-through arm, got %d", deleteArms)
	}

	other := ownerChangePipeline("user-b")
	if otherMatch := other[0][0].Value.(bson.M); len(otherMatch["$or"].([]bson.M)) != len(arms) {
		t.Error("pipeline shape must not vary by owner")
	}
}
