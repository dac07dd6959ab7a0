package primitive_test

import (
	"fmt"
	"reflect"
	"time"

	"graph-mapper/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindDuration
	// KindTime
	// KindEnum(0)
}

func ExampleUnderlying() {
	type Level uint8

	fmt.Println(primitive.Underlying(reflect.TypeOf(Level(0))))
	fmt.Println(primitive.Underlying(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.Underlying(reflect.TypeOf(time.Time{})))
	// Output:
	// KindUint8
	// KindInt64
	// KindEnum(0)
}
