package testutil

import (
	"reflect"
	"testing"
)

type Binding struct {
	Key   string
	Value int
}

func TestJS(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		want string
	}{
		{
			name: "simple struct",
			arg:  Binding{"compute:n", 30},
			want: `{"Key":"compute:n","Value":30}`,
		},
		{
			name: "nested struct",
			arg: struct {
				Binding Binding
				ID      int
			}{Binding{"on:click", 25}, 1},
			want: `{"Binding":{"Key":"on:click","Value":25},"ID":1}`,
		},
		{
			name: "unmarshalable",
			arg:  func() {},
			want: "(func())",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JS(tt.arg)
			if tt.name == "unmarshalable" {
				if got == "" {
					t.Errorf("JS() gave nothing")
				}
				return
			}
			if got != tt.want {
				t.Errorf("JS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDwimjs(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		want interface{}
	}{
		{
			name: "valid JSON string",
			arg:  `{"x":2,"y":4}`,
			want: map[string]interface{}{"x": float64(2), "y": float64(4)},
		},
		{
			name: "valid JSON bytes",
			arg:  []byte(`{"didClick":false}`),
			want: map[string]interface{}{"didClick": false},
		},
		{
			name: "non-string, non-byte-slice type",
			arg:  12345,
			want: 12345,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dwimjs(tt.arg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dwimjs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNum(t *testing.T) {
	for _, x := range []interface{}{int64(8), 8, float64(8), uint8(8), float32(8)} {
		f, ok := Num(x)
		if !ok || f != 8 {
			t.Fatalf("Num(%#v) = %v, %v", x, f, ok)
		}
	}
	if _, ok := Num("8"); ok {
		t.Fatal("a string isn't a number")
	}
}
