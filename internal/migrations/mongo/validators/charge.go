package validators

import "go.mongodb.org/mongo-driver/bson"

var ChargeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"id",
			"status",
			"amount",
			"amount_soles",
			"currency",
			"email",
			"method",
			"created_at",
			"voucher_url",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"id": bson.M{
				"bsonType": "string",
				"pattern":  "^ch_mock_",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"paid", "failed"},
			},

			"amount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"amount_soles": bson.M{
				"bsonType": []string{"double", "int", "long"},
			},

			"currency": bson.M{
				"bsonType": "string",
				"enum":     []string{"PEN"},
			},

			"method": bson.M{
				"bsonType": "string",
				"enum":     []string{"card", "yape", "mock"},
			},

			"metadata": bson.M{
				"bsonType": "object",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
