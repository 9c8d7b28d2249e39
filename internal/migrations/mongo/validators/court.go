package validators

import "go.mongodb.org/mongo-driver/bson"

var CourtValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"court_id",
			"lat",
			"lon",
			"fetched_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"court_id": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 64,
			},

			"name": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"lat": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  -90,
				"maximum":  90,
			},

			"lon": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  -180,
				"maximum":  180,
			},

			"hoops": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  50,
			},

			"netting": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  3,
			},

			"rim_type": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  3,
			},

			"rim_height": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
				"maximum":  5,
			},

			"opening_hours": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"fetched_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
