package route53

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"hesiod53/core/reconcile"
	"hesiod53/core/retry"
	"hesiod53/core/txt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/smithy-go"
)

// API is the subset of the Route53 client used by Store.
type API interface {
	ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
	GetChange(ctx context.Context, params *route53.GetChangeInput, optFns ...func(*route53.Options)) (*route53.GetChangeOutput, error)
}

// Store is a reconcile.Store backed by Route53.
type Store struct {
	api API
}

var _ reconcile.Store = (*Store)(nil)

// NewStore creates a Route53 client from cfg.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := route53.NewFromConfig(awsCfg, func(o *route53.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewStoreWithAPI(client), nil
}

// NewStoreWithAPI wraps an existing client.
func NewStoreWithAPI(api API) *Store {
	return &Store{api: api}
}

// ResolveZone returns the ID of the hosted zone named zoneName.
func (s *Store) ResolveZone(ctx context.Context, zoneName string) (string, error) {
	want := reconcile.Canonical(zoneName)

	pager := route53.NewListHostedZonesPaginator(s.api, &route53.ListHostedZonesInput{})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", classify("list hosted zones", err)
		}
		for _, zone := range page.HostedZones {
			if reconcile.Canonical(aws.ToString(zone.Name)) == want {
				return strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/"), nil
			}
		}
	}

	return "", fmt.Errorf("zone %s does not exist in Route53: %w", want, reconcile.ErrZoneNotFound)
}

// ListRecords returns every TXT record of the zone.
func (s *Store) ListRecords(ctx context.Context, zoneID string) ([]reconcile.Record, error) {
	input := &route53.ListResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
	}

	var records []reconcile.Record
	for {
		page, err := s.api.ListResourceRecordSets(ctx, input)
		if err != nil {
			return nil, classify("list resource record sets", err)
		}

		for _, set := range page.ResourceRecordSets {
			if set.Type != types.RRTypeTxt {
				continue
			}
			record, err := decodeSet(set)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}

		if !page.IsTruncated {
			break
		}
		input.StartRecordName = page.NextRecordName
		input.StartRecordType = page.NextRecordType
		input.StartRecordIdentifier = page.NextRecordIdentifier
	}

	return records, nil
}

// Submit sends changes as a single change batch.
func (s *Store) Submit(ctx context.Context, zoneID string, changes []reconcile.Change) (string, error) {
	batch := make([]types.Change, 0, len(changes))
	for _, c := range changes {
		batch = append(batch, types.Change{
			Action: types.ChangeAction(c.Action),
			ResourceRecordSet: &types.ResourceRecordSet{
				Name: aws.String(c.FQDN),
				Type: types.RRType(c.Type),
				TTL:  aws.Int64(c.TTL),
				ResourceRecords: []types.ResourceRecord{
					{Value: aws.String(txt.Quote(c.Segments))},
				},
			},
		})
	}

	out, err := s.api.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch:  &types.ChangeBatch{Changes: batch},
	})
	if err != nil {
		return "", classify("change resource record sets", err)
	}
	if out.ChangeInfo == nil {
		return "", errors.New("route53 change resource record sets: response has no change info")
	}

	return aws.ToString(out.ChangeInfo.Id), nil
}

// Status returns the propagation state of a change.
func (s *Store) Status(ctx context.Context, changeID string) (reconcile.ChangeStatus, error) {
	out, err := s.api.GetChange(ctx, &route53.GetChangeInput{Id: aws.String(changeID)})
	if err != nil {
		return "", classify("get change", err)
	}
	if out.ChangeInfo == nil {
		return "", errors.New("route53 get change: response has no change info")
	}

	if out.ChangeInfo.Status == types.ChangeStatusInsync {
		return reconcile.StatusInSync, nil
	}
	return reconcile.StatusPending, nil
}

// decodeSet joins and decodes the values of a TXT record set.
func decodeSet(set types.ResourceRecordSet) (reconcile.Record, error) {
	name := aws.ToString(set.Name)

	var b strings.Builder
	for _, rr := range set.ResourceRecords {
		value, err := txt.Decode(aws.ToString(rr.Value))
		if err != nil {
			return reconcile.Record{}, fmt.Errorf("record %s: %w", name, err)
		}
		b.WriteString(value)
	}

	return reconcile.NewRecord(name, b.String()), nil
}

// transientCodes are API error codes worth retrying.
var transientCodes = map[string]struct{}{
	"Throttling":              {},
	"ThrottlingException":     {},
	"PriorRequestNotComplete": {},
	"ServiceUnavailable":      {},
	"RequestTimeout":          {},
	"InternalError":           {},
}

// classify wraps err and marks it transient when a retry may succeed.
func classify(op string, err error) error {
	wrapped := fmt.Errorf("route53 %s: %w", op, err)
	if isTransient(err) {
		return retry.Transient(wrapped)
	}
	return wrapped
}

func isTransient(err error) bool {
	var prior *types.PriorRequestNotComplete
	if errors.As(err, &prior) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := transientCodes[apiErr.ErrorCode()]
		return ok
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
