package diagram

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Kind identifies the visual category of a node as provider.category.name,
// for example "aws.compute.eks".
type Kind string

// Registered node kinds.
const (
	KindEKS         Kind = "aws.compute.eks"
	KindEC2         Kind = "aws.compute.ec2"
	KindAutoScaling Kind = "aws.compute.autoscaling"

	KindVPC             Kind = "aws.network.vpc"
	KindPublicSubnet    Kind = "aws.network.public-subnet"
	KindPrivateSubnet   Kind = "aws.network.private-subnet"
	KindInternetGateway Kind = "aws.network.internet-gateway"
	KindNATGateway      Kind = "aws.network.nat-gateway"
	KindELB             Kind = "aws.network.elb"

	KindIAM Kind = "aws.security.iam"
	KindKMS Kind = "aws.security.kms"

	KindEBS Kind = "aws.storage.ebs"

	KindCloudWatch Kind = "aws.management.cloudwatch"

	KindSNS Kind = "aws.integration.sns"

	KindGeneral Kind = "aws.general.general"
	KindUser    Kind = "aws.general.user"

	KindBlank Kind = "generic.blank.blank"
)

var registered = []Kind{
	KindEKS, KindEC2, KindAutoScaling,
	KindVPC, KindPublicSubnet, KindPrivateSubnet, KindInternetGateway, KindNATGateway, KindELB,
	KindIAM, KindKMS,
	KindEBS,
	KindCloudWatch,
	KindSNS,
	KindGeneral, KindUser,
	KindBlank,
}

var kinds = func() map[Kind]bool {
	m := make(map[Kind]bool, len(registered))
	for _, k := range registered {
		m[k] = true
	}
	return m
}()

// Kinds returns all registered kinds in sorted order.
func Kinds() []Kind {
	out := slices.Clone(registered)
	slices.Sort(out)
	return out
}

// ParseKind returns the registered kind named s (case-insensitive).
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !kinds[k] {
		return "", errs.New(errs.ErrCodeInvalidDefinition, "unknown node kind: %q", s)
	}
	return k, nil
}

// Provider returns the first segment, e.g. "aws".
func (k Kind) Provider() string { return k.part(0) }

// Category returns the second segment, e.g. "compute".
func (k Kind) Category() string { return k.part(1) }

// Name returns the last segment, e.g. "eks".
func (k Kind) Name() string { return k.part(2) }

func (k Kind) part(i int) string {
	parts := strings.SplitN(string(k), ".", 3)
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
