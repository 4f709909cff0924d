package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_name",
			"email",
			"phone",
			"booking_date",
			"start_time",
			"end_time",
			"court_number",
			"status",
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

			"booking_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):00$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):00$`,
			},

			"court_number": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  3,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"confirmed",
					"cancelled",
				},
			},

			"admin_comment": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"voucher_url": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"charge_id": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
