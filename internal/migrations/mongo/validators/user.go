package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_name",
			"email",
			"phone",
			"password_hash",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{9}$",
			},

			// bcrypt hashes are 60 characters.
			"password_hash": bson.M{
				"bsonType":  "string",
				"minLength": 60,
				"maxLength": 60,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
