package validators

import "go.mongodb.org/mongo-driver/bson"

var VoteValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"review_id",
			"user_id",
			"direction",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"review_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"direction": bson.M{
				"bsonType": "string",
				"enum": []string{
					"up",
					"down",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
