package alerting

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// JSONSafe возвращает значение, которое encoding/json кодирует без ошибки.
// NaN и бесконечности становятся строками ("NaN", "+Inf", "-Inf"),
// комплексные числа, функции и каналы выводятся через fmt.
// Карты map[string]any и срезы []any обходятся рекурсивно и копируются.
func JSONSafe(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return strconv.FormatFloat(float64(x), 'g', -1, 32)
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = JSONSafe(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = JSONSafe(item)
		}
		return out
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Complex64, reflect.Complex128, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprint(v)
	default:
		return v
	}
}

// dumpContext — запасное представление контекста, если JSON не собрать.
func dumpContext(ctx map[string]any) string {
	return fmt.Sprintf("%+v", ctx)
}
