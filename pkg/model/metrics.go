package model

// Classification metrics (binary, labels 0/1)

func AccuracyInt(yTrue []int, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

func PrecisionRecallF1(yTrue []int, yPred []int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		if yPred[i] == 1 && yTrue[i] == 1 {
			tp++
		}
		if yPred[i] == 1 && yTrue[i] == 0 {
			fp++
		}
		if yPred[i] == 0 && yTrue[i] == 1 {
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// ConfusionMatrix counts true/false positives and negatives.
type ConfusionMatrix struct {
	TP, FP, TN, FN int
}

func Confusion(yTrue []int, yPred []int) ConfusionMatrix {
	var m ConfusionMatrix
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			m.TP++
		case yPred[i] == 1:
			m.FP++
		case yTrue[i] == 1:
			m.FN++
		default:
			m.TN++
		}
	}
	return m
}
