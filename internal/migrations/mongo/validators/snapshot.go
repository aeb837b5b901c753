package validators

import "go.mongodb.org/mongo-driver/bson"

var SnapshotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "run_id", "columns", "rows", "chunks", "saved_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"run_id": bson.M{"bsonType": "string"},
			"columns": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},
			"rows":     bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"chunks":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"report":   bson.M{"bsonType": "object"},
			"saved_at": bson.M{"bsonType": "date"},
		},
	},
}

// SnapshotChunkValidator allows null, string and integer cells only.
var SnapshotChunkValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "version", "run_id", "seq", "rows"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "string"},
			"version": bson.M{"bsonType": "string"},
			"run_id":  bson.M{"bsonType": "string"},
			"seq":     bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"rows": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "array",
					"items":    bson.M{"bsonType": []string{"null", "string", "int", "long"}},
				},
			},
		},
	},
}
