package compare

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	jsonSubjectConstant                  = "json"
	jsonDocumentNotObjectMessageConstant = "top-level value is not an object"
	jsonTrailingDataMessageConstant      = "unexpected data after top-level value"
	jsonUnexpectedTokenTemplateConstant  = "unexpected token %v"
	missingKeyInSecondTemplateConstant   = "Missing key in second: %s"
	missingKeyInFirstTemplateConstant    = "Missing key in first: %s"
	valueDifferenceTemplateConstant      = "Difference at %s: %s != %s"
	jsonPathSeparatorConstant            = "."
	jsonNullLiteralConstant              = "null"
	jsonTrueLiteralConstant              = "true"
	jsonFalseLiteralConstant             = "false"
)

// ErrJSONDocumentNotObject indicates a JSON document whose top-level value is not an object.
var ErrJSONDocumentNotObject = errors.New(jsonDocumentNotObjectMessageConstant)

var errJSONTrailingData = errors.New(jsonTrailingDataMessageConstant)

// jsonObject keeps member order as written in the document.
type jsonObject struct {
	keys   []string
	values map[string]any
}

// CompareJSON decodes two JSON documents and renders their key-wise differences, one per line.
func CompareJSON(firstContent []byte, secondContent []byte) (string, error) {
	firstDocument, firstError := decodeJSONDocument(firstContent)
	if firstError != nil {
		return "", firstError
	}
	secondDocument, secondError := decodeJSONDocument(secondContent)
	if secondError != nil {
		return "", secondError
	}
	return strings.Join(diffJSONObjects(firstDocument, secondDocument, ""), lineTerminatorConstant), nil
}

func diffJSONObjects(first *jsonObject, second *jsonObject, path string) []string {
	differences := make([]string, 0)

	for _, key := range first.keys {
		keyPath := path + key
		secondValue, present := second.values[key]
		if !present {
			differences = append(differences, fmt.Sprintf(missingKeyInSecondTemplateConstant, keyPath))
			continue
		}

		firstValue := first.values[key]
		firstObject, firstIsObject := firstValue.(*jsonObject)
		secondObject, secondIsObject := secondValue.(*jsonObject)
		if firstIsObject && secondIsObject {
			differences = append(differences, diffJSONObjects(firstObject, secondObject, keyPath+jsonPathSeparatorConstant)...)
			continue
		}

		if !jsonValuesEqual(firstValue, secondValue) {
			differences = append(differences, fmt.Sprintf(valueDifferenceTemplateConstant, keyPath, renderJSONValue(firstValue), renderJSONValue(secondValue)))
		}
	}

	for _, key := range second.keys {
		if _, present := first.values[key]; !present {
			differences = append(differences, fmt.Sprintf(missingKeyInFirstTemplateConstant, path+key))
		}
	}

	return differences
}

func jsonValuesEqual(firstValue any, secondValue any) bool {
	switch typedFirst := firstValue.(type) {
	case nil:
		return secondValue == nil
	case bool:
		typedSecond, isBool := secondValue.(bool)
		return isBool && typedFirst == typedSecond
	case string:
		typedSecond, isString := secondValue.(string)
		return isString && typedFirst == typedSecond
	case json.Number:
		typedSecond, isNumber := secondValue.(json.Number)
		return isNumber && jsonNumbersEqual(typedFirst, typedSecond)
	case []any:
		typedSecond, isArray := secondValue.([]any)
		if !isArray || len(typedFirst) != len(typedSecond) {
			return false
		}
		for elementIndex := range typedFirst {
			if !jsonValuesEqual(typedFirst[elementIndex], typedSecond[elementIndex]) {
				return false
			}
		}
		return true
	case *jsonObject:
		typedSecond, isObject := secondValue.(*jsonObject)
		if !isObject || len(typedFirst.keys) != len(typedSecond.keys) {
			return false
		}
		for _, key := range typedFirst.keys {
			secondMember, present := typedSecond.values[key]
			if !present || !jsonValuesEqual(typedFirst.values[key], secondMember) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func jsonNumbersEqual(firstNumber json.Number, secondNumber json.Number) bool {
	firstDecimal, firstError := decimal.NewFromString(firstNumber.String())
	secondDecimal, secondError := decimal.NewFromString(secondNumber.String())
	if firstError != nil || secondError != nil {
		return firstNumber == secondNumber
	}
	return firstDecimal.Equal(secondDecimal)
}

func renderJSONValue(value any) string {
	switch typedValue := value.(type) {
	case nil:
		return jsonNullLiteralConstant
	case bool:
		if typedValue {
			return jsonTrueLiteralConstant
		}
		return jsonFalseLiteralConstant
	case string:
		return typedValue
	case json.Number:
		return typedValue.String()
	default:
		var buffer bytes.Buffer
		writeCompactJSON(&buffer, typedValue)
		return buffer.String()
	}
}

func writeCompactJSON(buffer *bytes.Buffer, value any) {
	switch typedValue := value.(type) {
	case *jsonObject:
		buffer.WriteByte('{')
		for keyIndex, key := range typedValue.keys {
			if keyIndex > 0 {
				buffer.WriteByte(',')
			}
			writeJSONString(buffer, key)
			buffer.WriteByte(':')
			writeCompactJSON(buffer, typedValue.values[key])
		}
		buffer.WriteByte('}')
	case []any:
		buffer.WriteByte('[')
		for elementIndex, element := range typedValue {
			if elementIndex > 0 {
				buffer.WriteByte(',')
			}
			writeCompactJSON(buffer, element)
		}
		buffer.WriteByte(']')
	case string:
		writeJSONString(buffer, typedValue)
	default:
		buffer.WriteString(renderJSONValue(typedValue))
	}
}

func writeJSONString(buffer *bytes.Buffer, text string) {
	encoded, _ := json.Marshal(text)
	buffer.Write(encoded)
}

func decodeJSONDocument(content []byte) (*jsonObject, error) {
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()

	value, decodeError := decodeJSONValue(decoder)
	if decodeError != nil {
		return nil, wrapParseError(jsonSubjectConstant, decodeError)
	}
	if _, trailingError := decoder.Token(); !errors.Is(trailingError, io.EOF) {
		return nil, wrapParseError(jsonSubjectConstant, errJSONTrailingData)
	}

	document, isObject := value.(*jsonObject)
	if !isObject {
		return nil, wrapParseError(jsonSubjectConstant, ErrJSONDocumentNotObject)
	}
	return document, nil
}

func decodeJSONValue(decoder *json.Decoder) (any, error) {
	token, tokenError := decoder.Token()
	if tokenError != nil {
		return nil, tokenError
	}

	delimiter, isDelimiter := token.(json.Delim)
	if !isDelimiter {
		return token, nil
	}

	switch delimiter {
	case '{':
		return decodeJSONObject(decoder)
	case '[':
		return decodeJSONArray(decoder)
	default:
		return nil, fmt.Errorf(jsonUnexpectedTokenTemplateConstant, delimiter)
	}
}

func decodeJSONObject(decoder *json.Decoder) (*jsonObject, error) {
	object := &jsonObject{keys: []string{}, values: map[string]any{}}
	for decoder.More() {
		keyToken, keyError := decoder.Token()
		if keyError != nil {
			return nil, keyError
		}
		key, isKey := keyToken.(string)
		if !isKey {
			return nil, fmt.Errorf(jsonUnexpectedTokenTemplateConstant, keyToken)
		}

		value, valueError := decodeJSONValue(decoder)
		if valueError != nil {
			return nil, valueError
		}
		if _, duplicate := object.values[key]; !duplicate {
			object.keys = append(object.keys, key)
		}
		object.values[key] = value
	}

	if _, closingError := decoder.Token(); closingError != nil {
		return nil, closingError
	}
	return object, nil
}

func decodeJSONArray(decoder *json.Decoder) ([]any, error) {
	elements := make([]any, 0)
	for decoder.More() {
		element, elementError := decodeJSONValue(decoder)
		if elementError != nil {
			return nil, elementError
		}
		elements = append(elements, element)
	}

	if _, closingError := decoder.Token(); closingError != nil {
		return nil, closingError
	}
	return elements, nil
}
