package util

func Int32Ptr(value int) *int32 {
	int32val := int32(value)
	return &int32val
}

func IntPtr(value int) *int {
	return &value
}
