package repository

import (
	"context"
	"log"

	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ownerChangePipeline builds the server-side match for one owner's change
// events. A document event must carry the owner's id as either the owning
// user or the notification receiver; only delete events, which have no full
// document to inspect, pass unmatched.
func ownerChangePipeline(ownerID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"fullDocument.user_id": ownerID},
				{"fullDocument.receiver_id": ownerID},
				{"operationType": "delete"},
			},
		}}},
	}
}

// subscribeOwner opens a change stream on coll scoped to ownerID and invokes
// reload on attach and after every subsequent mutation. reload is expected to
// re-fetch the full owner result set and hand it to the subscriber; no diffs
// are delivered and no debouncing is applied.
//
// Delete events carry no full document, so they cannot be matched to an
// owner server-side; the pipeline lets them through and the owner filter in
// reload's query keeps foreign documents out of the delivered list.
//
// Transport errors on the stream are logged and delivery stops. There is no
// reconnect beyond what the driver does internally; subscribers keep their
// last-known data until they resubscribe.
func subscribeOwner(ctx context.Context, coll *mongo.Collection, ownerID string, reload func(context.Context) error) (func(), error) {
	pipeline := ownerChangePipeline(ownerID)

	streamCtx, cancel := context.WithCancel(ctx)

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := coll.Watch(streamCtx, pipeline, opts)
	if err != nil {
		cancel()
		utils.TrackError("subscription", "watch_failed")
		return nil, storeErr("watch "+coll.Name(), err)
	}

	// Initial delivery before any change arrives.
	if err := reload(streamCtx); err != nil {
		stream.Close(context.Background())
		cancel()
		return nil, err
	}

	utils.ActiveSubscriptions.Inc()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer utils.ActiveSubscriptions.Dec()
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			if err := reload(streamCtx); err != nil {
				log.Printf("subscription reload failed on %s: %v", coll.Name(), err)
				utils.TrackError("subscription", "reload_failed")
				return
			}
			utils.SubscriptionDeliveries.WithLabelValues(coll.Name()).Inc()
		}

		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			log.Printf("change stream error on %s: %v", coll.Name(), err)
			utils.TrackError("subscription", "stream_error")
		}
	}()

	unsubscribe := func() {
		cancel()
		<-done
	}
	return unsubscribe, nil
}
