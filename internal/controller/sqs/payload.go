package sqs

import (
	"net/url"
	"strings"
)

// Обрабатываются только события создания объекта:
// ObjectCreated:Put, ObjectCreated:Post, ObjectCreated:Copy,
// ObjectCreated:CompleteMultipartUpload.
const createdEventPrefix = "ObjectCreated:"

// notificationBody - конверт события хранилища; одно сообщение очереди
// может нести несколько записей.
type notificationBody struct {
	Records []storageRecord `json:"Records"`
}

type storageRecord struct {
	EventName string `json:"eventName"`
	S3        struct {
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// decodeObjectKey снимает URL-кодирование с ключа. Хранилище кодирует
// пробел как '+', поэтому сначала '+' -> ' ', потом percent-decode.
func decodeObjectKey(raw string) (string, error) {
	return url.PathUnescape(strings.ReplaceAll(raw, "+", " "))
}
