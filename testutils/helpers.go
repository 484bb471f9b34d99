package testutils

import "strconv"

func orderID(seq int) string { return "ord-" + strconv.Itoa(seq) }
