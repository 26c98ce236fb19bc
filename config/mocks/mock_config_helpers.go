package mocks

import (
	"time"

	gomock "github.com/golang/mock/gomock"
)

// GetMockedQueryConfig returns a config that answers every query key with values.
// Keys missing from values resolve to their zero value.
func GetMockedQueryConfig(ctrl *gomock.Controller, values map[string]interface{}) *MockConfig {
	config := NewMockConfig(ctrl)
	config.EXPECT().GetString(gomock.Any()).DoAndReturn(func(key string) string {
		v, _ := values[key].(string)
		return v
	}).AnyTimes()
	config.EXPECT().GetInt(gomock.Any()).DoAndReturn(func(key string) int {
		v, _ := values[key].(int)
		return v
	}).AnyTimes()
	config.EXPECT().GetDuration(gomock.Any()).DoAndReturn(func(key string) time.Duration {
		v, _ := values[key].(time.Duration)
		return v
	}).AnyTimes()
	config.EXPECT().GetBool(gomock.Any()).DoAndReturn(func(key string) bool {
		v, _ := values[key].(bool)
		return v
	}).AnyTimes()
	return config
}
