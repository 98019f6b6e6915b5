package compare

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"rsc.io/pdf"
)

const (
	pdfSubjectConstant                = "pdf"
	pdfPanicTemplateConstant          = "malformed document: %v"
	pdfContentsKeyConstant            = "Contents"
	pdfBaselineToleranceRatioConstant = 0.5
	pdfWordGapRatioConstant           = 0.25
	pdfEstimatedGlyphWidthConstant    = 500
	pdfGlyphSpaceUnitsConstant        = 1000
	pdfHorizontalScalePercentConstant = 100
	pdfSpaceConstant                  = " "
)

const (
	pdfOperatorSaveStateConstant        = "q"
	pdfOperatorRestoreStateConstant     = "Q"
	pdfOperatorConcatenateConstant      = "cm"
	pdfOperatorBeginTextConstant        = "BT"
	pdfOperatorFontConstant             = "Tf"
	pdfOperatorCharacterSpacingConstant = "Tc"
	pdfOperatorWordSpacingConstant      = "Tw"
	pdfOperatorLeadingConstant          = "TL"
	pdfOperatorRiseConstant             = "Ts"
	pdfOperatorHorizontalScaleConstant  = "Tz"
	pdfOperatorMoveConstant             = "Td"
	pdfOperatorMoveSetLeadingConstant   = "TD"
	pdfOperatorNextLineConstant         = "T*"
	pdfOperatorTextMatrixConstant       = "Tm"
	pdfOperatorShowConstant             = "Tj"
	pdfOperatorShowArrayConstant        = "TJ"
	pdfOperatorNextLineShowConstant     = "'"
	pdfOperatorSpacingShowConstant      = "\""
)

// ExtractPDFLines returns the text of every page in order. Runs sharing a baseline form one line,
// a page without text contributes a single empty line and one trailing empty line is dropped.
func ExtractPDFLines(content []byte) (lines []string, extractionError error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			lines = nil
			extractionError = wrapParseError(pdfSubjectConstant, fmt.Errorf(pdfPanicTemplateConstant, recovered))
		}
	}()

	reader, openError := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if openError != nil {
		return nil, wrapParseError(pdfSubjectConstant, openError)
	}

	pageTexts := make([]string, 0, reader.NumPage())
	for pageNumber := 1; pageNumber <= reader.NumPage(); pageNumber++ {
		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, strings.Join(pageTextLines(pageTextRuns(page)), lineTerminatorConstant))
	}

	documentLines := strings.Split(strings.Join(pageTexts, lineTerminatorConstant), lineTerminatorConstant)
	if len(documentLines[len(documentLines)-1]) == 0 {
		documentLines = documentLines[:len(documentLines)-1]
	}
	return documentLines, nil
}

type pdfTextRun struct {
	text     string
	startX   float64
	endX     float64
	baseline float64
	fontSize float64
}

func pageTextLines(runs []pdfTextRun) []string {
	lines := make([]string, 0)
	var currentLine strings.Builder
	var previousRun *pdfTextRun

	for runIndex := range runs {
		run := runs[runIndex]
		if previousRun != nil {
			tolerance := math.Max(previousRun.fontSize*pdfBaselineToleranceRatioConstant, 1)
			if math.Abs(run.baseline-previousRun.baseline) > tolerance {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			} else if startsNewWord(*previousRun, run) {
				currentLine.WriteString(pdfSpaceConstant)
			}
		}
		currentLine.WriteString(run.text)
		previousRun = &runs[runIndex]
	}

	if previousRun != nil {
		lines = append(lines, currentLine.String())
	}
	return lines
}

func startsNewWord(previousRun pdfTextRun, run pdfTextRun) bool {
	if strings.HasSuffix(previousRun.text, pdfSpaceConstant) || strings.HasPrefix(run.text, pdfSpaceConstant) {
		return false
	}
	return run.startX-previousRun.endX > previousRun.fontSize*pdfWordGapRatioConstant
}

type pdfMatrix [3][3]float64

var pdfIdentityMatrix = pdfMatrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func pdfTranslation(offsetX float64, offsetY float64) pdfMatrix {
	return pdfMatrix{{1, 0, 0}, {0, 1, 0}, {offsetX, offsetY, 1}}
}

func pdfOperandMatrix(operands []pdf.Value) pdfMatrix {
	matrix := pdfIdentityMatrix
	for operandIndex := 0; operandIndex < 6; operandIndex++ {
		matrix[operandIndex/2][operandIndex%2] = operands[operandIndex].Float64()
	}
	return matrix
}

func (left pdfMatrix) multiply(right pdfMatrix) pdfMatrix {
	var product pdfMatrix
	for row := 0; row < 3; row++ {
		for column := 0; column < 3; column++ {
			for index := 0; index < 3; index++ {
				product[row][column] += left[row][index] * right[index][column]
			}
		}
	}
	return product
}

type pdfTextState struct {
	font             pdf.Font
	encoding         pdf.TextEncoding
	fontSize         float64
	characterSpacing float64
	wordSpacing      float64
	horizontalScale  float64
	leading          float64
	rise             float64
	textMatrix       pdfMatrix
	lineMatrix       pdfMatrix
	transformation   pdfMatrix
}

func (state *pdfTextState) renderingMatrix() pdfMatrix {
	scaling := pdfMatrix{{state.fontSize * state.horizontalScale, 0, 0}, {0, state.fontSize, 0}, {0, state.rise, 1}}
	return scaling.multiply(state.textMatrix).multiply(state.transformation)
}

func (state *pdfTextState) moveLine(offsetX float64, offsetY float64) {
	state.lineMatrix = pdfTranslation(offsetX, offsetY).multiply(state.lineMatrix)
	state.textMatrix = state.lineMatrix
}

func (state *pdfTextState) advance(offsetX float64) {
	state.textMatrix = pdfTranslation(offsetX, 0).multiply(state.textMatrix)
}

// show decodes raw, keeping spaces, and advances the text position. Fonts without widths advance half an em per glyph.
func (state *pdfTextState) show(raw string) pdfTextRun {
	decoded := raw
	if state.encoding != nil {
		decoded = state.encoding.Decode(raw)
	}

	start := state.renderingMatrix()
	var text strings.Builder
	byteIndex := 0
	for _, character := range decoded {
		code := 0
		if byteIndex < len(raw) {
			code = int(raw[byteIndex])
		}
		byteIndex++

		glyphWidth := state.font.Width(code)
		if glyphWidth == 0 {
			glyphWidth = pdfEstimatedGlyphWidthConstant
		}
		offsetX := glyphWidth/pdfGlyphSpaceUnitsConstant*state.fontSize + state.characterSpacing
		if character == ' ' {
			offsetX += state.wordSpacing
		}
		state.advance(offsetX * state.horizontalScale)
		text.WriteRune(character)
	}
	end := state.renderingMatrix()

	return pdfTextRun{
		text:     text.String(),
		startX:   start[2][0],
		endX:     end[2][0],
		baseline: start[2][1],
		fontSize: start[0][0],
	}
}

// pageTextRuns walks the page content stream and returns one run per shown string, in content order.
func pageTextRuns(page pdf.Page) []pdfTextRun {
	state := pdfTextState{
		horizontalScale: 1,
		textMatrix:      pdfIdentityMatrix,
		lineMatrix:      pdfIdentityMatrix,
		transformation:  pdfIdentityMatrix,
	}
	savedStates := make([]pdfTextState, 0)
	runs := make([]pdfTextRun, 0)
	appendRun := func(raw string) {
		run := state.show(raw)
		if len(run.text) > 0 {
			runs = append(runs, run)
		}
	}

	pdf.Interpret(page.V.Key(pdfContentsKeyConstant), func(stack *pdf.Stack, operator string) {
		operands := make([]pdf.Value, stack.Len())
		for operandIndex := len(operands) - 1; operandIndex >= 0; operandIndex-- {
			operands[operandIndex] = stack.Pop()
		}

		switch {
		case operator == pdfOperatorSaveStateConstant:
			savedStates = append(savedStates, state)
		case operator == pdfOperatorRestoreStateConstant && len(savedStates) > 0:
			state = savedStates[len(savedStates)-1]
			savedStates = savedStates[:len(savedStates)-1]
		case operator == pdfOperatorConcatenateConstant && len(operands) == 6:
			state.transformation = pdfOperandMatrix(operands).multiply(state.transformation)
		case operator == pdfOperatorBeginTextConstant:
			state.textMatrix = pdfIdentityMatrix
			state.lineMatrix = pdfIdentityMatrix
		case operator == pdfOperatorFontConstant && len(operands) == 2:
			state.font = page.Font(operands[0].Name())
			state.encoding = state.font.Encoder()
			state.fontSize = operands[1].Float64()
		case operator == pdfOperatorCharacterSpacingConstant && len(operands) == 1:
			state.characterSpacing = operands[0].Float64()
		case operator == pdfOperatorWordSpacingConstant && len(operands) == 1:
			state.wordSpacing = operands[0].Float64()
		case operator == pdfOperatorLeadingConstant && len(operands) == 1:
			state.leading = operands[0].Float64()
		case operator == pdfOperatorRiseConstant && len(operands) == 1:
			state.rise = operands[0].Float64()
		case operator == pdfOperatorHorizontalScaleConstant && len(operands) == 1:
			state.horizontalScale = operands[0].Float64() / pdfHorizontalScalePercentConstant
		case operator == pdfOperatorMoveSetLeadingConstant && len(operands) == 2:
			state.leading = -operands[1].Float64()
			state.moveLine(operands[0].Float64(), operands[1].Float64())
		case operator == pdfOperatorMoveConstant && len(operands) == 2:
			state.moveLine(operands[0].Float64(), operands[1].Float64())
		case operator == pdfOperatorNextLineConstant:
			state.moveLine(0, -state.leading)
		case operator == pdfOperatorTextMatrixConstant && len(operands) == 6:
			state.textMatrix = pdfOperandMatrix(operands)
			state.lineMatrix = state.textMatrix
		case operator == pdfOperatorShowConstant && len(operands) == 1:
			appendRun(operands[0].RawString())
		case operator == pdfOperatorNextLineShowConstant && len(operands) == 1:
			state.moveLine(0, -state.leading)
			appendRun(operands[0].RawString())
		case operator == pdfOperatorSpacingShowConstant && len(operands) == 3:
			state.wordSpacing = operands[0].Float64()
			state.characterSpacing = operands[1].Float64()
			state.moveLine(0, -state.leading)
			appendRun(operands[2].RawString())
		case operator == pdfOperatorShowArrayConstant && len(operands) == 1:
			elements := operands[0]
			for elementIndex := 0; elementIndex < elements.Len(); elementIndex++ {
				element := elements.Index(elementIndex)
				if element.Kind() == pdf.String {
					appendRun(element.RawString())
					continue
				}
				state.advance(-element.Float64() / pdfGlyphSpaceUnitsConstant * state.fontSize * state.horizontalScale)
			}
		}
	})

	return runs
}
