package catalog

import (
	"github.com/matzehuels/eksdiagrams/pkg/diagram"
)

// WellArchitected is the full EKS reference architecture: security, ECR,
// monitoring, a multi-AZ VPC with public and private subnets, the managed
// control plane and its add-ons.
func WellArchitected() *diagram.Diagram {
	d := diagram.New("EKS Well-Architected Architecture",
		diagram.WithName(NameWellArchitected),
		diagram.WithFilename("eks-well-architected-architecture"),
		diagram.WithDirection(diagram.TopBottom))

	developer := d.Node(diagram.KindUser, "Developer\nkubectl/helm")

	aws := d.Cluster("AWS Cloud")

	security := aws.Cluster("Security & Identity")
	iam := security.Node(diagram.KindIAM, "IAM Roles\n& Policies")
	kms := security.Node(diagram.KindKMS, "KMS\nEncryption")

	ecr := aws.Node(diagram.KindGeneral, "ECR Repository\nImage Scanning")

	monitoring := aws.Cluster("Monitoring & Observability")
	cloudwatch := monitoring.Node(diagram.KindCloudWatch, "CloudWatch\nLogs & Metrics")
	sns := monitoring.Node(diagram.KindSNS, "SNS\nAlerts")

	vpc := aws.Cluster("VPC (10.0.0.0/16)")
	igw := vpc.Node(diagram.KindInternetGateway, "Internet Gateway")

	public := vpc.Cluster("Public Subnets (Multi-AZ)")
	public.Node(diagram.KindPublicSubnet, "Public AZ-A\n10.0.1.0/24")
	nat := public.Node(diagram.KindNATGateway, "NAT Gateway")
	public.Node(diagram.KindPublicSubnet, "Public AZ-B\n10.0.2.0/24")

	private := vpc.Cluster("Private Subnets (Multi-AZ)")
	private.Node(diagram.KindPrivateSubnet, "Private AZ-A\n10.0.10.0/24")
	workerA := private.Node(diagram.KindEC2, "Worker Node A\nt3.medium")
	private.Node(diagram.KindPrivateSubnet, "Private AZ-B\n10.0.20.0/24")
	workerB := private.Node(diagram.KindEC2, "Worker Node B\nt3.medium")

	eks := vpc.Node(diagram.KindEKS, "EKS Control Plane\nv1.29 Managed")

	addons := aws.Cluster("EKS Add-ons")
	alb := addons.Node(diagram.KindELB, "AWS Load Balancer\nController")
	autoscaler := addons.Node(diagram.KindAutoScaling, "Cluster\nAutoscaler")
	ebsCSI := addons.Node(diagram.KindEBS, "EBS CSI\nDriver")

	workers := diagram.Group(workerA, workerB)

	d.Edge(developer, eks, "kubectl")
	d.Connect(diagram.Group(eks), workers, "manages")

	d.Connect(diagram.Group(iam), diagram.Group(eks, workerA, workerB), "auth")
	d.Edge(kms, eks, "encrypt")

	d.Connect(workers, diagram.Group(ecr), "pull images")

	d.Connect(diagram.Group(eks, workerA, workerB), diagram.Group(cloudwatch), "logs/metrics")
	d.Edge(cloudwatch, sns, "alerts")

	d.Edge(igw, nat, "")
	d.Connect(diagram.Group(nat), workers, "")

	d.Connect(diagram.Group(alb, autoscaler, ebsCSI), diagram.Group(eks), "")

	return d
}

// Simple is the condensed left-to-right overview.
func Simple() *diagram.Diagram {
	d := diagram.New("Simple EKS Architecture",
		diagram.WithName(NameSimple),
		diagram.WithFilename("simple-eks-architecture"),
		diagram.WithDirection(diagram.LeftRight))

	user := d.Node(diagram.KindUser, "Developer")

	aws := d.Cluster("AWS Cloud")
	iam := aws.Node(diagram.KindIAM, "IAM")
	ecr := aws.Node(diagram.KindGeneral, "ECR")
	cw := aws.Node(diagram.KindCloudWatch, "CloudWatch")

	vpc := aws.Cluster("VPC")
	eks := vpc.Node(diagram.KindEKS, "EKS\nControl Plane")

	workers := vpc.Cluster("Worker Nodes")
	node1 := workers.Node(diagram.KindEC2, "Node 1\nt3.medium")
	node2 := workers.Node(diagram.KindEC2, "Node 2\nt3.medium")

	d.Edge(user, eks, "")
	d.Connect(diagram.Group(eks), diagram.Group(node1, node2), "")
	d.Edge(iam, eks, "")
	d.Connect(diagram.Group(node1, node2), diagram.Group(ecr), "")
	d.Connect(diagram.Group(eks, node1, node2), diagram.Group(cw), "")

	return d
}

// Network focuses on the per-AZ subnet layout of the cluster VPC.
func Network() *diagram.Diagram {
	d := diagram.New("EKS Network Architecture",
		diagram.WithName(NameNetwork),
		diagram.WithFilename("eks-network-architecture"),
		diagram.WithDirection(diagram.TopBottom))

	user := d.Node(diagram.KindUser, "Developer")

	region := d.Cluster("AWS Region (us-west-2)")
	vpc := region.Cluster("VPC (10.0.0.0/16)")
	igw := vpc.Node(diagram.KindInternetGateway, "Internet Gateway")

	azA := vpc.Cluster("Availability Zone A")
	azA.Node(diagram.KindPublicSubnet, "Public\n10.0.1.0/24")
	nat := azA.Node(diagram.KindNATGateway, "NAT Gateway")
	azA.Node(diagram.KindPrivateSubnet, "Private\n10.0.10.0/24")
	nodeA := azA.Node(diagram.KindEC2, "EKS Node A")

	azB := vpc.Cluster("Availability Zone B")
	azB.Node(diagram.KindPublicSubnet, "Public\n10.0.2.0/24")
	azB.Node(diagram.KindPrivateSubnet, "Private\n10.0.20.0/24")
	nodeB := azB.Node(diagram.KindEC2, "EKS Node B")

	eks := vpc.Node(diagram.KindEKS, "EKS Control Plane\n(Multi-AZ)")

	ecr := region.Node(diagram.KindGeneral, "ECR")
	cw := region.Node(diagram.KindCloudWatch, "CloudWatch")

	d.Chain("", user, igw, nat)
	d.Edge(nat, nodeA, "")
	d.Edge(nat, nodeB, "")
	d.Edge(eks, nodeA, "")
	d.Edge(eks, nodeB, "")
	d.Edge(nodeA, ecr, "")
	d.Edge(nodeB, ecr, "")
	d.Edge(nodeA, cw, "")
	d.Edge(nodeB, cw, "")

	return d
}
