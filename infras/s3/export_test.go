package s3

import "sarana/infras/otel"

type ObjectAPI = objectAPI

func NewWithClient(client ObjectAPI, bucket, domain string, otl otel.Otel) S3 {
	return newWithClient(client, bucket, domain, otl)
}
