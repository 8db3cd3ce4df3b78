package config

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

func upstreamTypeHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() == reflect.String && t == reflect.TypeOf(Upstream{}) {
			return ParseUpstream(data.(string))
		}

		return data, nil
	}
}

func durationTypeHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(Duration(0)) {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			var d Duration

			err := d.UnmarshalText([]byte(data.(string)))

			return d, err

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			// number without unit: seconds
			return Duration(time.Duration(reflect.ValueOf(data).Int()) * time.Second), nil

		case reflect.Float32, reflect.Float64:
			return Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		}

		return data, nil
	}
}
