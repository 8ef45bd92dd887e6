package registry

import (
	"testing"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

func TestCoerceFuncs(t *testing.T) {
	tests := []struct {
		name    string
		fn      CoerceFunc
		in      value.Value
		want    value.Value
		wantErr bool
	}{
		{"bool from True", ToBool, value.String("True"), value.Bool(true), false},
		{"bool from 0", ToBool, value.String("0"), value.Bool(false), false},
		{"bool from int", ToBool, value.Int(2), value.Bool(true), false},
		{"bool from empty", ToBool, value.String(""), value.None, true},
		{"bool from word", ToBool, value.String("maybe"), value.None, true},
		{"int from string", ToInt, value.String("20"), value.Int(20), false},
		{"int from quoted", ToInt, value.String(`"7"`), value.Int(7), false},
		{"int from float text", ToInt, value.String("2.7"), value.Int(2), false},
		{"int from float", ToInt, value.Float(-3.9), value.Int(-3), false},
		{"int from nan", ToInt, value.String("nan"), value.None, true},
		{"float from string", ToFloat, value.String(" 0.16 "), value.Float(0.16), false},
		{"float from int", ToFloat, value.Int(20), value.Float(20), false},
		{"float from list", ToFloat, value.FloatList(1), value.None, true},
		{"int list from text", ToIntList, value.String("[0, 2,]"), value.IntList(0, 2), false},
		{"int list from empty", ToIntList, value.String("[]"), value.IntList(), false},
		{"int list from floats", ToIntList, value.FloatList(1, 2), value.IntList(1, 2), false},
		{"int list bad", ToIntList, value.String("[a]"), value.None, true},
		{"float list from text", ToFloatList, value.String("[1.5, 2]"), value.FloatList(1.5, 2), false},
		{"string from float", ToString, value.Float(0.5), value.String("0.5"), false},
		{"string from none", ToString, value.None, value.None, true},
		{"lower string", ToLowerString, value.String("ReSeRvOiR"), value.String("reservoir"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("got %v (%s), want %v (%s)", got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestSetting_ApplyDefaultsToKind(t *testing.T) {
	s := Setting{Section: "setup", Key: "temperature", Kind: value.KindFloat}

	v, err := s.Apply(value.String("23.5"))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !v.Equal(value.Float(23.5)) {
		t.Errorf("Apply() = %v", v)
	}

	if _, err := s.Apply(value.String("warm")); err == nil {
		t.Error("expected error for non-numeric temperature")
	}
}
