package mongoclient

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var tDecimal = reflect.TypeOf(decimal.Decimal{})

// Registry is the default bson registry plus a Decimal128 codec for decimal.Decimal
func Registry() *bsoncodec.Registry {
	return bson.NewRegistryBuilder().
		RegisterTypeEncoder(tDecimal, bsoncodec.ValueEncoderFunc(encodeDecimal)).
		RegisterTypeDecoder(tDecimal, bsoncodec.ValueDecoderFunc(decodeDecimal)).
		Build()
}

func encodeDecimal(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{Name: "encodeDecimal", Types: []reflect.Type{tDecimal}, Received: val}
	}
	d128, err := primitive.ParseDecimal128(val.Interface().(decimal.Decimal).String())
	if err != nil {
		return err
	}
	return vw.WriteDecimal128(d128)
}

func decodeDecimal(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{Name: "decodeDecimal", Types: []reflect.Type{tDecimal}, Received: val}
	}

	var d decimal.Decimal
	switch vr.Type() {
	case bsontype.Decimal128:
		d128, err := vr.ReadDecimal128()
		if err != nil {
			return err
		}
		if d, err = decimal.NewFromString(d128.String()); err != nil {
			return err
		}
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		if d, err = decimal.NewFromString(s); err != nil {
			return err
		}
	case bsontype.Double:
		f, err := vr.ReadDouble()
		if err != nil {
			return err
		}
		d = decimal.NewFromFloat(f)
	case bsontype.Int32:
		i, err := vr.ReadInt32()
		if err != nil {
			return err
		}
		d = decimal.NewFromInt32(i)
	case bsontype.Int64:
		i, err := vr.ReadInt64()
		if err != nil {
			return err
		}
		d = decimal.NewFromInt(i)
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into decimal.Decimal", vr.Type())
	}

	val.Set(reflect.ValueOf(d))
	return nil
}
