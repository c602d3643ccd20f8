package config

import "errors"

var (
	ErrInvalidCameraID   = errors.New("NAYANA_CAMERA_ID must be a valid integer")
	ErrInvalidThreshold  = errors.New("NAYANA_THRESHOLD must be a number")
	ErrInvalidStreamFPS  = errors.New("NAYANA_STREAM_FPS must be a valid integer")
	ErrInvalidBool       = errors.New("boolean variable must be true or false")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrHomeDirUnresolved = errors.New("cannot resolve home directory for NAYANA_DATA_DIR")
)
